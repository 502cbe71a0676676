package registration

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// Summary renders the submitted fields one per line.
func Summary(f FormData) string {
	cert := ""
	if f.CertificatePath != "" {
		cert = filepath.Base(f.CertificatePath)
	}
	lines := []string{
		"Name:          " + f.Name,
		"Email:         " + f.Email,
		"Phone:         " + f.Phone,
		"Address:       " + f.Address,
		"Service type:  " + string(f.ServiceType),
		"Experience:    " + strconv.Itoa(f.Experience) + " years",
		"Hourly rate:   " + strconv.FormatFloat(f.HourlyRate, 'f', 2, 64),
		"Working hours: " + f.WorkingFrom + " - " + f.WorkingTo,
		fmt.Sprintf("Assessment:    %d/%d (%s)", f.Score, len(Questions(f.ServiceType)), passLabel(f.Pass)),
		"Certificate:   " + cert,
	}
	return strings.Join(lines, "\n") + "\n"
}

func passLabel(pass bool) string {
	if pass {
		return "passed"
	}
	return "not passed"
}

// Changes returns a unified diff of the fields edited since the last
// submission, or "" when nothing changed.
func Changes(submitted, current FormData) string {
	before, after := Summary(submitted), Summary(current)
	if before == after {
		return ""
	}
	return udiff.Unified("submitted", "current", before, after)
}

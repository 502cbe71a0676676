package devserver

import "github.com/mark3labs/handyhire/internal/api"

var seedProfile = api.Profile{
	Name:         "Sita Sharma",
	PhoneNo:      "9800000001",
	Province:     "Bagmati",
	District:     "Lalitpur",
	Municipality: "Godawari",
	AccountID:    "acc-1001",
	Email:        "sita@example.com",
}

var seedProviders = []api.Provider{
	{ID: "p-ram", Name: "Ram Thapa", ServiceType: "Electrician", Experience: 6, WorkingFrom: "09:00 AM", WorkingTo: "05:00 PM", RateCharge: 600},
	{ID: "p-gita", Name: "Gita Rai", ServiceType: "Electrician", Experience: 11, WorkingFrom: "08:00 AM", WorkingTo: "02:00 PM", RateCharge: 850},
	{ID: "p-bikash", Name: "Bikash Gurung", ServiceType: "Plumber", Experience: 3, WorkingFrom: "10:00 AM", WorkingTo: "06:00 PM", RateCharge: 450},
	{ID: "p-maya", Name: "Maya Tamang", ServiceType: "Plumber", Experience: 8, WorkingFrom: "07:00 AM", WorkingTo: "03:00 PM", RateCharge: 700},
}

var seedRatings = map[string]float64{
	"p-ram":    4.5,
	"p-gita":   4.8,
	"p-bikash": 3.9,
}

package models

import "strings"

// Landing page copy. None of it changes at runtime.

type MissionCard struct {
	Icon        string
	Title       string
	Description string
}

type Location struct {
	Name        string
	Description string
	Hours       string
	MapURL      string
	// ParallaxRate is the background scroll factor applied client-side.
	ParallaxRate string
}

type Service struct {
	Name string
}

// Blurb is the sentence under each service card.
func (s Service) Blurb() string {
	return "Expert assistance with " + strings.ToLower(s.Name) + " to keep your academic work on track."
}

type Testimonial struct {
	Quote      string
	Name       string
	Department string
}

type OpeningHours struct {
	Days  string
	Hours string
}

type FooterColumn struct {
	Heading string
	Links   []string
}

type LandingContent struct {
	OrgName       string
	Tagline       string
	Intro         string
	Mission       string
	MissionCards  []MissionCard
	Locations     []Location
	Services      []Service
	Testimonials  []Testimonial
	Hours         []OpeningHours
	HoursNote     string
	Socials       []string
	FooterTagline string
	FooterColumns []FooterColumn
	LegalLinks    []string
	Copyright     string
}

func DefaultLandingContent() LandingContent {
	return LandingContent{
		OrgName: "Student Computing Team",
		Tagline: "By Students, For Students",
		Intro:   "We're your on-campus tech experts, ready to solve your computing problems and get you back to what matters – your studies.",
		Mission: "To provide expert, friendly, and accessible technical support to the entire campus community.",
		MissionCards: []MissionCard{
			{Icon: "laptop", Title: "Device Support", Description: "Troubleshooting laptops, phones, and other devices."},
			{Icon: "headphones", Title: "Tech Guidance", Description: "Expert advice on technology purchases and setup."},
			{Icon: "users", Title: "Student-Focused", Description: "Support tailored to your academic technology needs."},
			{Icon: "clock", Title: "Quick Resolution", Description: "Fast solutions to get you back to your studies."},
		},
		Locations: []Location{
			{
				Name:         "Main Campus Tech Hub",
				Description:  "Located in the Student Union Building, our main support counter offers comprehensive technical assistance for all your computing needs.",
				Hours:        "Monday-Friday, 9am-5pm",
				MapURL:       "https://g.co/kgs/SoF28e3",
				ParallaxRate: "0.5",
			},
			{
				Name:         "Library Tech Station",
				Description:  "Our satellite location in the Main Library provides quick assistance with common issues and basic troubleshooting.",
				Hours:        "Monday-Thursday, 10am-8pm • Friday, 10am-5pm",
				MapURL:       "https://g.co/kgs/qeWst4D",
				ParallaxRate: "0.3",
			},
		},
		Services: []Service{
			{Name: "Hardware Diagnostics"},
			{Name: "Software Troubleshooting"},
			{Name: "Network Connection Issues"},
			{Name: "Virus/Malware Removal"},
			{Name: "Data Recovery Assistance"},
			{Name: "OS Installation & Updates"},
		},
		Testimonials: []Testimonial{
			{
				Quote:      "The Student Computing Team saved my thesis! My laptop crashed the night before submission, and they recovered all my files.",
				Name:       "Jamie Chen",
				Department: "Biology, Senior",
			},
			{
				Quote:      "Quick, friendly, and they actually explain what they're doing so I can learn to fix similar issues myself in the future.",
				Name:       "Alex Rodriguez",
				Department: "Computer Science, Junior",
			},
			{
				Quote:      "I was having WiFi connectivity issues for weeks. They resolved it in 20 minutes. Absolute lifesavers!",
				Name:       "Taylor Jackson",
				Department: "Business, Sophomore",
			},
		},
		Hours: []OpeningHours{
			{Days: "Monday - Friday", Hours: "9:00 AM - 5:00 PM"},
			{Days: "Saturday", Hours: "10:00 AM - 2:00 PM"},
			{Days: "Sunday", Hours: "Closed"},
		},
		HoursNote:     "Available via email 24/7 for critical issues",
		Socials:       []string{"Twitter", "Instagram", "Facebook"},
		FooterTagline: "Technology support by students, for students",
		FooterColumns: []FooterColumn{
			{Heading: "Services", Links: footerLinks("Services")},
			{Heading: "Locations", Links: footerLinks("Locations")},
			{Heading: "Resources", Links: footerLinks("Resources")},
			{Heading: "About Us", Links: footerLinks("About Us")},
		},
		LegalLinks: []string{"Privacy Policy", "Terms of Service", "Accessibility"},
		Copyright:  "© 2025 Student Computing Team. All rights reserved.",
	}
}

// footerLinks fills a column with placeholder entries until real pages exist.
func footerLinks(category string) []string {
	return []string{category + " Link 1", category + " Link 2", category + " Link 3"}
}

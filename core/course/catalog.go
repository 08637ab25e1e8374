// Package course holds the fixed program catalog.
package course

import (
	"errors"
	"strings"
)

var ErrNotFound = errors.New("course not found")

type Category string

const (
	CategoryTechnical    Category = "Technical"
	CategoryNonTechnical Category = "Non-Technical"

	// AllCategories is the catalog filter matching every course.
	AllCategories = "All"
)

type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Duration    string   `json:"duration"`
	Price       string   `json:"price"`
	Featured    bool     `json:"featured"`
	Description string   `json:"description"`
	AvgCTC      string   `json:"avgCtc"`
	Role        string   `json:"role"`
	Syllabus    []string `json:"syllabus"`
}

// Domain is an internship domain linking to the course that trains for its role.
type Domain struct {
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Category Category `json:"category"`
}

var catalog = []Course{
	{
		ID: 1, Title: "Full Stack Web Development", Category: CategoryTechnical, Duration: "6 Months", Price: "₹45,000",
		Featured: true, AvgCTC: "₹6-12 LPA", Role: "Full Stack Developer",
		Description: "Build production web apps end to end with React, Node.js and cloud databases.",
		Syllabus:    []string{"HTML, CSS & JavaScript", "React & State Management", "Node.js & REST APIs", "Databases & ORMs", "Deployment & CI/CD"},
	},
	{
		ID: 2, Title: "Data Science & Machine Learning", Category: CategoryTechnical, Duration: "6 Months", Price: "₹55,000",
		Featured: true, AvgCTC: "₹8-15 LPA", Role: "Data Scientist",
		Description: "Turn raw data into predictions with Python, statistics and modern ML tooling.",
		Syllabus:    []string{"Python for Data", "Statistics & Probability", "Supervised Learning", "Deep Learning Basics", "Capstone Project"},
	},
	{
		ID: 3, Title: "Cloud Computing & DevOps", Category: CategoryTechnical, Duration: "4 Months", Price: "₹40,000",
		Featured: true, AvgCTC: "₹7-12 LPA", Role: "Cloud Engineer",
		Description: "Design, automate and operate infrastructure on the major cloud platforms.",
		Syllabus:    []string{"Linux & Networking", "AWS Core Services", "Docker & Kubernetes", "Infrastructure as Code", "Monitoring"},
	},
	{
		ID: 4, Title: "Cybersecurity Fundamentals", Category: CategoryTechnical, Duration: "4 Months", Price: "₹42,000",
		Featured: false, AvgCTC: "₹8-13 LPA", Role: "Security Analyst",
		Description: "Learn to defend systems: threat modelling, network security and incident response.",
		Syllabus:    []string{"Security Principles", "Network Security", "Web Application Security", "SOC Operations", "Incident Response"},
	},
	{
		ID: 5, Title: "Python Automation & Scripting", Category: CategoryTechnical, Duration: "3 Months", Price: "₹25,000",
		Featured: false, AvgCTC: "₹4-8 LPA", Role: "Automation Engineer",
		Description: "Automate repetitive work with Python scripts, schedulers and test frameworks.",
		Syllabus:    []string{"Python Essentials", "Files & APIs", "Web Scraping", "Test Automation", "Scheduling & Bots"},
	},
	{
		ID: 6, Title: "IoT & Embedded Systems", Category: CategoryTechnical, Duration: "4 Months", Price: "₹38,000",
		Featured: false, AvgCTC: "₹5-10 LPA", Role: "IoT Developer",
		Description: "Program microcontrollers, wire sensors and ship connected devices.",
		Syllabus:    []string{"Electronics Basics", "Arduino & ESP32", "Sensors & Actuators", "MQTT & Cloud IoT", "Device Project"},
	},
	{
		ID: 7, Title: "Digital Marketing & SEO", Category: CategoryNonTechnical, Duration: "3 Months", Price: "₹22,000",
		Featured: true, AvgCTC: "₹4-7 LPA", Role: "Digital Marketing Specialist",
		Description: "Grow brands online with SEO, paid campaigns, social media and analytics.",
		Syllabus:    []string{"Marketing Foundations", "SEO & Content", "Google Ads", "Social Media Marketing", "Analytics & Reporting"},
	},
	{
		ID: 8, Title: "Technical Content Writing", Category: CategoryNonTechnical, Duration: "2 Months", Price: "₹18,000",
		Featured: false, AvgCTC: "₹3.5-6 LPA", Role: "Technical Writer",
		Description: "Write clear documentation, tutorials and product content for technology companies.",
		Syllabus:    []string{"Writing Fundamentals", "Documentation Tools", "API Documentation", "Editing & Style Guides", "Portfolio"},
	},
	{
		ID: 9, Title: "HR & Talent Management", Category: CategoryNonTechnical, Duration: "3 Months", Price: "₹20,000",
		Featured: false, AvgCTC: "₹4-6 LPA", Role: "HR Generalist",
		Description: "Master recruitment, onboarding, engagement and HR operations.",
		Syllabus:    []string{"HR Foundations", "Talent Acquisition", "Employee Engagement", "Payroll & Compliance", "HR Analytics"},
	},
	{
		ID: 10, Title: "Instructional Design", Category: CategoryNonTechnical, Duration: "3 Months", Price: "₹24,000",
		Featured: false, AvgCTC: "₹5-8 LPA", Role: "Instructional Designer",
		Description: "Design engaging e-learning experiences using proven learning models.",
		Syllabus:    []string{"Learning Theories", "ADDIE & SAM", "Storyboarding", "Authoring Tools", "Assessment Design"},
	},
}

var domains = []Domain{
	{Name: "Web & Full-Stack Development", Role: "Full Stack Developer", Category: CategoryTechnical},
	{Name: "AI, Machine Learning & Data Science", Role: "Data Scientist", Category: CategoryTechnical},
	{Name: "Cybersecurity Awareness", Role: "Security Analyst", Category: CategoryTechnical},
	{Name: "Python & Scripting Automation", Role: "Automation Engineer", Category: CategoryTechnical},
	{Name: "IoT / Embedded Devices", Role: "IoT Developer", Category: CategoryTechnical},
	{Name: "Content & Communication", Role: "Technical Writer", Category: CategoryNonTechnical},
	{Name: "Digital Marketing & SEO", Role: "Digital Marketing Specialist", Category: CategoryNonTechnical},
	{Name: "Instructional Design", Role: "Instructional Designer", Category: CategoryNonTechnical},
	{Name: "HR & Talent Engagement", Role: "HR Generalist", Category: CategoryNonTechnical},
}

func clone(c Course) Course {
	c.Syllabus = append([]string(nil), c.Syllabus...)
	return c
}

func filter(keep func(c Course) bool) []Course {
	courses := make([]Course, 0, len(catalog))
	for _, c := range catalog {
		if keep(c) {
			courses = append(courses, clone(c))
		}
	}
	return courses
}

// All returns the whole catalog in display order.
func All() []Course {
	return filter(func(Course) bool { return true })
}

// Featured returns the courses shown on the home page.
func Featured() []Course {
	return filter(func(c Course) bool { return c.Featured })
}

// ByCategory filters the catalog. "All" (or an empty category) matches everything.
func ByCategory(category string) []Course {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, AllCategories) {
		return All()
	}
	return filter(func(c Course) bool { return strings.EqualFold(string(c.Category), category) })
}

// Categories returns the program filters: "All" first, then every category in catalog order.
func Categories() []string {
	cats := []string{AllCategories}
	seen := make(map[Category]bool)
	for _, c := range catalog {
		if !seen[c.Category] {
			seen[c.Category] = true
			cats = append(cats, string(c.Category))
		}
	}
	return cats
}

func Find(id int) (Course, error) {
	for _, c := range catalog {
		if c.ID == id {
			return clone(c), nil
		}
	}
	return Course{}, ErrNotFound
}

// FindByRole returns the first course training for role.
func FindByRole(role string) (Course, error) {
	for _, c := range catalog {
		if strings.EqualFold(c.Role, strings.TrimSpace(role)) {
			return clone(c), nil
		}
	}
	return Course{}, ErrNotFound
}

func Domains() []Domain {
	return append([]Domain(nil), domains...)
}

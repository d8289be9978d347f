package services

import "alfredoptarigan/document-parser/internal/models"

// jobCatalog is the fixed posting table every match runs against.
var jobCatalog = []models.JobPosting{
	{
		ID:             1,
		Title:          "Full Stack Developer",
		Company:        "TechCorp Solutions",
		Location:       "Bangalore, India",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹8-12 LPA",
		RequiredSkills: []string{"Python", "React", "Node.js", "MongoDB", "REST API"},
		Description:    "Looking for a full stack developer to build scalable web applications.",
		PostedDate:     "2 days ago",
	},
	{
		ID:             2,
		Title:          "Data Scientist",
		Company:        "DataMinds Analytics",
		Location:       "Hyderabad, India",
		Type:           "Full-time",
		Experience:     "1-3 years",
		Salary:         "₹10-15 LPA",
		RequiredSkills: []string{"Python", "Machine Learning", "Pandas", "Scikit-Learn", "SQL"},
		Description:    "Join our team to work on cutting-edge ML projects and data analysis.",
		PostedDate:     "1 week ago",
	},
	{
		ID:             3,
		Title:          "Frontend Developer",
		Company:        "WebWorks India",
		Location:       "Pune, India",
		Type:           "Full-time",
		Experience:     "1-2 years",
		Salary:         "₹6-9 LPA",
		RequiredSkills: []string{"React", "JavaScript", "HTML", "CSS", "TypeScript"},
		Description:    "Create beautiful and responsive user interfaces for our clients.",
		PostedDate:     "3 days ago",
	},
	{
		ID:             4,
		Title:          "Backend Developer",
		Company:        "CloudTech Systems",
		Location:       "Mumbai, India",
		Type:           "Full-time",
		Experience:     "2-5 years",
		Salary:         "₹9-14 LPA",
		RequiredSkills: []string{"Java", "Spring", "MySQL", "REST API", "Microservices"},
		Description:    "Build robust backend systems and APIs for enterprise applications.",
		PostedDate:     "5 days ago",
	},
	{
		ID:             5,
		Title:          "Machine Learning Engineer",
		Company:        "AI Innovations Lab",
		Location:       "Bangalore, India",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹12-18 LPA",
		RequiredSkills: []string{"Python", "TensorFlow", "PyTorch", "Deep Learning", "NLP"},
		Description:    "Work on state-of-the-art AI models and deploy them at scale.",
		PostedDate:     "1 day ago",
	},
	{
		ID:             6,
		Title:          "DevOps Engineer",
		Company:        "InfraCloud Technologies",
		Location:       "Remote",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹10-16 LPA",
		RequiredSkills: []string{"Docker", "Kubernetes", "AWS", "Jenkins", "CI/CD"},
		Description:    "Manage cloud infrastructure and automate deployment pipelines.",
		PostedDate:     "4 days ago",
	},
	{
		ID:             7,
		Title:          "Mobile App Developer",
		Company:        "AppGenius Studio",
		Location:       "Delhi NCR, India",
		Type:           "Full-time",
		Experience:     "1-3 years",
		Salary:         "₹7-11 LPA",
		RequiredSkills: []string{"React Native", "Flutter", "Android", "iOS", "JavaScript"},
		Description:    "Develop cross-platform mobile applications for diverse clients.",
		PostedDate:     "1 week ago",
	},
	{
		ID:             8,
		Title:          "Data Analyst",
		Company:        "Business Intelligence Corp",
		Location:       "Chennai, India",
		Type:           "Full-time",
		Experience:     "0-2 years",
		Salary:         "₹5-8 LPA",
		RequiredSkills: []string{"SQL", "Python", "Data Science", "Excel", "Tableau"},
		Description:    "Analyze business data and create insightful reports and dashboards.",
		PostedDate:     "2 days ago",
	},
	{
		ID:             9,
		Title:          "Cloud Solutions Architect",
		Company:        "CloudFirst Consulting",
		Location:       "Bangalore, India",
		Type:           "Full-time",
		Experience:     "4-6 years",
		Salary:         "₹15-22 LPA",
		RequiredSkills: []string{"AWS", "Azure", "GCP", "Cloud Computing", "Microservices"},
		Description:    "Design and implement cloud-native solutions for enterprise clients.",
		PostedDate:     "3 days ago",
	},
	{
		ID:             10,
		Title:          "Python Developer",
		Company:        "CodeCraft Solutions",
		Location:       "Hyderabad, India",
		Type:           "Full-time",
		Experience:     "1-3 years",
		Salary:         "₹6-10 LPA",
		RequiredSkills: []string{"Python", "Django", "Flask", "PostgreSQL", "REST API"},
		Description:    "Develop backend services and APIs using Python frameworks.",
		PostedDate:     "6 days ago",
	},
	{
		ID:             11,
		Title:          "UI/UX Designer",
		Company:        "DesignHub Creative",
		Location:       "Pune, India",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹7-12 LPA",
		RequiredSkills: []string{"Figma", "Adobe XD", "Prototyping", "User Research", "Design"},
		Description:    "Create intuitive and beautiful user experiences for digital products.",
		PostedDate:     "4 days ago",
	},
	{
		ID:             12,
		Title:          "Cybersecurity Analyst",
		Company:        "SecureNet Technologies",
		Location:       "Mumbai, India",
		Type:           "Full-time",
		Experience:     "2-5 years",
		Salary:         "₹9-15 LPA",
		RequiredSkills: []string{"Cybersecurity", "Network Security", "Penetration Testing", "Security"},
		Description:    "Protect our systems and data from security threats and vulnerabilities.",
		PostedDate:     "1 week ago",
	},
	{
		ID:             13,
		Title:          "Software Engineer Intern",
		Company:        "StartupHub India",
		Location:       "Bangalore, India",
		Type:           "Internship",
		Experience:     "0-1 years",
		Salary:         "₹15,000-25,000/month",
		RequiredSkills: []string{"Python", "JavaScript", "Git", "Problem Solving"},
		Description:    "Learn and grow with our dynamic startup team. Fresh graduates welcome!",
		PostedDate:     "2 days ago",
	},
	{
		ID:             14,
		Title:          "Blockchain Developer",
		Company:        "CryptoTech Ventures",
		Location:       "Remote",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹12-20 LPA",
		RequiredSkills: []string{"Blockchain", "Solidity", "Ethereum", "Web3", "Smart Contracts"},
		Description:    "Build decentralized applications and smart contracts on blockchain.",
		PostedDate:     "5 days ago",
	},
	{
		ID:             15,
		Title:          "QA Automation Engineer",
		Company:        "TestPro Solutions",
		Location:       "Chennai, India",
		Type:           "Full-time",
		Experience:     "2-4 years",
		Salary:         "₹7-11 LPA",
		RequiredSkills: []string{"Selenium", "Python", "Java", "Testing", "Automation"},
		Description:    "Automate testing processes and ensure software quality.",
		PostedDate:     "3 days ago",
	},
	{
		ID:             16,
		Title:          "AI Research Scientist",
		Company:        "DeepMind Research Lab",
		Location:       "Bangalore, India",
		Type:           "Full-time",
		Experience:     "3-6 years",
		Salary:         "₹18-28 LPA",
		RequiredSkills: []string{"Deep Learning", "AI", "Research", "Python", "TensorFlow"},
		Description:    "Conduct cutting-edge research in artificial intelligence and publish papers.",
		PostedDate:     "1 week ago",
	},
	{
		ID:             17,
		Title:          "Project Manager - IT",
		Company:        "GlobalTech Enterprises",
		Location:       "Mumbai, India",
		Type:           "Full-time",
		Experience:     "5-8 years",
		Salary:         "₹15-25 LPA",
		RequiredSkills: []string{"Project Management", "Agile", "Scrum", "Leadership", "Communication"},
		Description:    "Lead and manage IT projects from conception to delivery.",
		PostedDate:     "4 days ago",
	},
	{
		ID:             18,
		Title:          "React Native Developer",
		Company:        "MobileFirst Apps",
		Location:       "Hyderabad, India",
		Type:           "Full-time",
		Experience:     "1-3 years",
		Salary:         "₹7-12 LPA",
		RequiredSkills: []string{"React Native", "JavaScript", "Mobile Development", "React", "Redux"},
		Description:    "Build high-performance mobile apps using React Native framework.",
		PostedDate:     "2 days ago",
	},
	{
		ID:             19,
		Title:          "Database Administrator",
		Company:        "DataSafe Systems",
		Location:       "Pune, India",
		Type:           "Full-time",
		Experience:     "3-5 years",
		Salary:         "₹9-14 LPA",
		RequiredSkills: []string{"SQL", "MySQL", "PostgreSQL", "Database", "Performance Tuning"},
		Description:    "Manage and optimize database systems for high availability and performance.",
		PostedDate:     "6 days ago",
	},
	{
		ID:             20,
		Title:          "Technical Content Writer",
		Company:        "TechDocs Media",
		Location:       "Remote",
		Type:           "Full-time",
		Experience:     "1-3 years",
		Salary:         "₹5-8 LPA",
		RequiredSkills: []string{"Technical Writing", "Documentation", "Communication", "Research"},
		Description:    "Create technical documentation, tutorials, and blog posts for developers.",
		PostedDate:     "5 days ago",
	},
}

// JobCatalog returns a copy of the built-in postings.
func JobCatalog() []models.JobPosting {
	catalog := make([]models.JobPosting, len(jobCatalog))
	for i, job := range jobCatalog {
		job.RequiredSkills = append([]string(nil), job.RequiredSkills...)
		catalog[i] = job
	}
	return catalog
}

package rules

// defaultCorrections holds whole-word substitutions for OCR misreads that
// recur predictably. Keys are matched case-insensitively; an exact-case key
// wins over a case-folded one. Values must not contain digits.
var defaultCorrections = map[string]string{
	// names
	"Wi11iam": "William", "Wil1iam": "William", "W1lliam": "William",
	"Mo11y": "Molly", "Mol1y": "Molly",
	"Mi11er": "Miller", "Mil1er": "Miller",
	"A1ex": "Alex", "A1ice": "Alice",
	"Phi1ip": "Philip", "Phi11ip": "Phillip",
	"Bi11": "Bill",
	"Wi1son": "Wilson", "W1lson": "Wilson",
	"Michae1": "Michael", "Danie1": "Daniel", "Samue1": "Samuel", "Pau1": "Paul",
	"Char1es": "Charles", "Char1ie": "Charlie",
	"Ol1via": "Olivia", "O1ivia": "Olivia", "0livia": "Olivia",
	"El1a": "Ella", "E1la": "Ella",
	"Mi1es": "Miles", "Ga1e": "Gale",
	"Ke11y": "Kelly", "Kel1y": "Kelly",
	"Sa11y": "Sally", "Sal1y": "Sally",
	"Ho11y": "Holly", "Hol1y": "Holly",
	"Li1y": "Lily", "L1ly": "Lily",
	"Li11ian": "Lillian", "Lil1ian": "Lillian",
	"Ha11": "Hall", "Hal1": "Hall",

	// titles
	"Rea1": "Real", "rea1": "real",
	"Sa1es": "Sales", "sa1es": "sales",
	"Genera1": "General",
	"Manag3r": "Manager", "D1rector": "Director", "Eng1neer": "Engineer",
	"Deve1oper": "Developer", "Consu1tant": "Consultant",
	"Spec1alist": "Specialist", "Ana1yst": "Analyst", "Adm1n": "Admin",

	// company words
	"So1utions": "Solutions", "so1utions": "solutions",
	"Techno1ogy": "Technology", "techno1ogy": "technology",
	"Techno1ogies": "Technologies",
	"G1oba1": "Global", "g1oba1": "global",
	"Financia1": "Financial", "Digita1": "Digital", "Professiona1": "Professional",
	"Internationa1": "International", "Industria1": "Industrial",
	"Capita1": "Capital", "Lega1": "Legal", "Socia1": "Social",
	"Virtua1": "Virtual", "Centra1": "Central", "Roya1": "Royal",
	"Imperia1": "Imperial", "Universa1": "Universal", "Coasta1": "Coastal",
	"Regiona1": "Regional", "Nationa1": "National", "Federa1": "Federal",
	"Commercia1": "Commercial", "Residentia1": "Residential",
	"Municipa1": "Municipal", "Cora1": "Coral", "Crysta1": "Crystal",
	"Meta1": "Metal", "Tota1": "Total", "Fisca1": "Fiscal",
	"Corp0ration": "Corporation", "Corporat1on": "Corporation",

	// legal suffixes
	"1nc": "Inc", "1NC": "INC",
	"L1C": "LLC", "11C": "LLC", "1LC": "LLC",

	// common words
	"1ive": "live", "1ife": "life",
	"on1ine": "online", "On1ine": "Online",
	"mobi1e": "mobile", "Mobi1e": "Mobile",
	"emai1": "email", "Emai1": "Email",
	"1obster": "lobster", "1ishing": "fishing",
	"B1ue": "Blue", "b1ue": "blue",
	"Purp1e": "Purple", "Yel1ow": "Yellow", "Go1d": "Gold",
	"Si1ver": "Silver", "P1atinum": "Platinum",

	// domains
	"c0m": "com", "cQm": "com", "ccm": "com",

	// states
	"F1orida": "Florida", "Ca1ifornia": "California", "I11inois": "Illinois",
	"Pennsy1vania": "Pennsylvania", "Caro1ina": "Carolina",
}

// defaultTitleKeywords are job-title words and abbreviations, matched as
// whole words against a lowercased line.
var defaultTitleKeywords = []string{
	"ceo", "cto", "cfo", "coo", "cio", "cmo", "cso", "ciso",
	"president", "vice president", "vp", "svp", "evp", "avp",
	"chairman", "chairwoman", "chair",
	"director", "manager", "supervisor", "administrator", "admin",
	"senior", "junior", "sr", "jr", "principal", "chief", "head", "lead",
	"engineer", "developer", "programmer", "architect", "designer", "analyst",
	"scientist", "technician", "consultant", "specialist", "coordinator",
	"executive", "officer", "associate", "assistant", "intern",
	"founder", "co-founder", "cofounder", "partner", "owner", "proprietor",
	"sales", "marketing", "hr", "human resources", "recruiter",
	"accountant", "cpa", "attorney", "lawyer", "counsel", "paralegal",
	"physician", "doctor", "dentist", "nurse", "therapist", "pharmacist",
	"professor", "teacher", "instructor", "researcher",
	"agent", "broker", "realtor", "representative", "rep",
	"advisor", "adviser", "planner", "strategist", "editor", "producer",
}

// defaultCompoundTitles maps space-stripped lowercase titles to their display
// form, for cards where OCR dropped the spaces.
var defaultCompoundTitles = map[string]string{
	"chiefexecutiveofficer":      "Chief Executive Officer",
	"chieftechnologyofficer":     "Chief Technology Officer",
	"chieffinancialofficer":      "Chief Financial Officer",
	"chiefoperatingofficer":      "Chief Operating Officer",
	"chiefmarketingofficer":      "Chief Marketing Officer",
	"seniorsoftwareengineer":     "Senior Software Engineer",
	"softwareengineer":           "Software Engineer",
	"seniorvicepresident":        "Senior Vice President",
	"vicepresident":              "Vice President",
	"realestateagent":            "Real Estate Agent",
	"realestatebroker":           "Real Estate Broker",
	"licensedrealestateagent":    "Licensed Real Estate Agent",
	"marketingmanager":           "Marketing Manager",
	"communicationsmanager":      "Communications Manager",
	"salesrepresentative":        "Sales Representative",
	"salesmanager":               "Sales Manager",
	"accountexecutive":           "Account Executive",
	"accountmanager":             "Account Manager",
	"projectmanager":             "Project Manager",
	"productmanager":             "Product Manager",
	"generalmanager":             "General Manager",
	"managingdirector":           "Managing Director",
	"managingpartner":            "Managing Partner",
	"financialadvisor":           "Financial Advisor",
	"humanresourcesmanager":      "Human Resources Manager",
	"businessdevelopmentmanager": "Business Development Manager",
	"graphicdesigner":            "Graphic Designer",
	"dataanalyst":                "Data Analyst",
	"datascientist":              "Data Scientist",
}

// defaultCompanyIndicators are legal-entity and industry tokens that mark a
// company line.
var defaultCompanyIndicators = []string{
	"inc", "llc", "llp", "lp", "ltd", "plc", "gmbh", "corp", "corporation",
	"company", "co", "group", "holdings", "partners", "solutions", "services",
	"technologies", "technology", "tech", "systems", "consulting", "industries",
	"enterprises", "associates", "agency", "studio", "studios", "labs",
	"realty", "properties", "capital", "ventures", "bank", "insurance",
	"law firm", "clinic", "international", "global",
}

// defaultPersonalDomains are free email providers; their domains say nothing
// about the contact's company.
var defaultPersonalDomains = []string{
	"gmail.com", "googlemail.com", "yahoo.com", "hotmail.com", "outlook.com",
	"aol.com", "icloud.com", "mail.com", "protonmail.com", "proton.me",
	"zoho.com", "yandex.com", "live.com", "msn.com", "me.com", "mac.com",
	"inbox.com", "att.net", "sbcglobal.net", "verizon.net", "comcast.net",
	"cox.net", "charter.net", "earthlink.net", "juno.com", "bellsouth.net",
	"rocketmail.com", "gmx.com", "ymail.com",
}

// defaultFirstNames is a curated list of common given names used to boost
// name candidates.
var defaultFirstNames = []string{
	"james", "john", "robert", "michael", "william", "david", "richard",
	"joseph", "thomas", "charles", "christopher", "daniel", "matthew",
	"anthony", "mark", "donald", "steven", "paul", "andrew", "joshua",
	"kenneth", "kevin", "brian", "george", "timothy", "ronald", "edward",
	"jason", "jeffrey", "ryan", "jacob", "gary", "nicholas", "eric",
	"jonathan", "stephen", "larry", "justin", "scott", "brandon", "benjamin",
	"samuel", "gregory", "alexander", "alex", "frank", "patrick", "raymond",
	"jack", "dennis", "jerry", "tyler", "aaron", "adam", "henry", "peter",
	"philip", "phillip", "bill", "charlie", "miles",
	"mary", "patricia", "jennifer", "linda", "elizabeth", "barbara", "susan",
	"jessica", "sarah", "karen", "lisa", "nancy", "betty", "margaret",
	"sandra", "ashley", "kimberly", "emily", "donna", "michelle", "carol",
	"amanda", "dorothy", "melissa", "deborah", "stephanie", "rebecca",
	"sharon", "laura", "cynthia", "kathleen", "amy", "angela", "shirley",
	"anna", "brenda", "pamela", "emma", "nicole", "helen", "samantha",
	"katherine", "christine", "debra", "rachel", "carolyn", "janet",
	"catherine", "maria", "heather", "diane", "julie", "olivia", "alice",
	"molly", "ella", "kelly", "sally", "holly", "lily", "lillian", "gale",
	"jane", "priya", "wei", "mohammed", "ahmed", "carlos", "jose", "juan",
	"luis", "sofia", "isabella", "mia", "chloe", "grace",
}

// defaultSurnames is a curated list of common family names.
var defaultSurnames = []string{
	"smith", "johnson", "williams", "brown", "jones", "garcia", "miller",
	"davis", "rodriguez", "martinez", "hernandez", "lopez", "gonzalez",
	"wilson", "anderson", "thomas", "taylor", "moore", "jackson", "martin",
	"lee", "perez", "thompson", "white", "harris", "sanchez", "clark",
	"ramirez", "lewis", "robinson", "walker", "young", "allen", "king",
	"wright", "scott", "torres", "nguyen", "hill", "flores", "green",
	"adams", "nelson", "baker", "hall", "rivera", "campbell", "mitchell",
	"carter", "roberts", "doe", "patel", "kim", "chen", "wang", "singh",
}

// defaultNonNameWords are boilerplate and address words that disqualify a
// name candidate, on top of title keywords and company indicators.
var defaultNonNameWords = []string{
	"phone", "tel", "telephone", "fax", "mobile", "cell", "office", "direct",
	"email", "e-mail", "mail", "web", "website", "www", "http", "https",
	"street", "avenue", "road", "boulevard", "suite", "floor", "drive",
	"lane", "plaza", "building", "box", "estate", "real", "main",
	"north", "south", "east", "west", "center", "centre",
	"the", "and", "of", "for", "at", "by", "your", "our",
	"welcome", "thank", "thanks", "contact", "follow", "visit",
	"licensed", "certified", "registered", "team", "department",
	"mr", "mrs", "ms", "dr", "prof", "phd", "md", "esq", "mba",
}

// defaultStreetKeywords mark address lines.
var defaultStreetKeywords = []string{
	"street", "st", "avenue", "ave", "road", "rd", "boulevard", "blvd",
	"drive", "dr", "lane", "ln", "way", "court", "ct", "place", "pl",
	"plaza", "parkway", "pkwy", "highway", "hwy", "circle", "cir",
	"terrace", "square", "sq", "suite", "ste", "floor", "fl", "building",
	"bldg", "apt", "apartment", "unit", "po box", "p.o. box", "box",
}

// defaultStates maps lowercase state names to their abbreviations.
var defaultStates = map[string]string{
	"alabama": "al", "alaska": "ak", "arizona": "az", "arkansas": "ar",
	"california": "ca", "colorado": "co", "connecticut": "ct", "delaware": "de",
	"florida": "fl", "georgia": "ga", "hawaii": "hi", "idaho": "id",
	"illinois": "il", "indiana": "in", "iowa": "ia", "kansas": "ks",
	"kentucky": "ky", "louisiana": "la", "maine": "me", "maryland": "md",
	"massachusetts": "ma", "michigan": "mi", "minnesota": "mn", "mississippi": "ms",
	"missouri": "mo", "montana": "mt", "nebraska": "ne", "nevada": "nv",
	"new hampshire": "nh", "new jersey": "nj", "new mexico": "nm", "new york": "ny",
	"north carolina": "nc", "north dakota": "nd", "ohio": "oh", "oklahoma": "ok",
	"oregon": "or", "pennsylvania": "pa", "rhode island": "ri", "south carolina": "sc",
	"south dakota": "sd", "tennessee": "tn", "texas": "tx", "utah": "ut",
	"vermont": "vt", "virginia": "va", "washington": "wa", "west virginia": "wv",
	"wisconsin": "wi", "wyoming": "wy", "district of columbia": "dc",
}

// defaultStateMisreads maps OCR misreadings of state names that survive
// correction to the real name.
var defaultStateMisreads = map[string]string{
	"f1orida":      "florida",
	"flor1da":      "florida",
	"ca1ifornia":   "california",
	"californ1a":   "california",
	"i11inois":     "illinois",
	"il1inois":     "illinois",
	"pennsy1vania": "pennsylvania",
	"texa5":        "texas",
	"0hio":         "ohio",
	"0regon":       "oregon",
	"new y0rk":     "new york",
	"ge0rgia":      "georgia",
	"ar1zona":      "arizona",
}

// defaultIndustryKeywords maps an industry label to tokens that suggest it.
var defaultIndustryKeywords = map[string][]string{
	"Real Estate":   {"real estate", "realty", "properties", "realtor", "homes", "property", "mortgage"},
	"Technology":    {"tech", "software", "digital", "cloud", "data", "ai", "cyber", "labs", "systems", "app"},
	"Finance":       {"bank", "capital", "financial", "finance", "invest", "wealth", "insurance", "credit", "fund"},
	"Healthcare":    {"health", "medical", "clinic", "hospital", "pharma", "dental", "care", "wellness"},
	"Legal":         {"law", "legal", "attorney", "attorneys", "counsel", "litigation"},
	"Consulting":    {"consulting", "consultants", "advisory", "advisors", "partners"},
	"Manufacturing": {"manufacturing", "industries", "industrial", "fabrication", "machining"},
	"Retail":        {"retail", "store", "shop", "boutique", "market", "outlet"},
	"Hospitality":   {"hotel", "restaurant", "hospitality", "resort", "catering", "cafe"},
	"Education":     {"school", "academy", "university", "college", "education", "learning"},
	"Construction":  {"construction", "builders", "contractors", "roofing", "building"},
	"Marketing":     {"marketing", "media", "creative", "agency", "advertising", "brand"},
}

// defaultCommonTLDs are top-level domains accepted for bare hostnames.
var defaultCommonTLDs = []string{
	"com", "org", "net", "edu", "gov", "io", "co", "us", "uk", "ca", "de",
	"fr", "au", "in", "biz", "info", "ai", "app", "dev", "me", "tech", "law",
	"realty", "agency", "studio", "design",
}

// defaultBusinessTLDs earn the email TLD bonus when scoring.
var defaultBusinessTLDs = []string{"com", "org", "net", "edu", "gov", "io", "co"}

// defaultSocialDomains are never reported as the contact's website.
var defaultSocialDomains = []string{
	"linkedin.com", "twitter.com", "x.com", "facebook.com", "fb.com",
	"instagram.com", "youtube.com", "tiktok.com",
}

// defaultEmailPrefixes are generic mailbox names used to rebuild emails from
// noisy fragments.
var defaultEmailPrefixes = []string{
	"info", "contact", "hello", "support", "sales", "admin", "office", "team",
}

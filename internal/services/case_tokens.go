package services

// tokenSet holds the vocabulary of one case style.
type tokenSet struct {
	subjects     []string
	caseTypes    []string
	companies    []string
	plaintiffs   []string
	evidence     []string
	templates    []string
	keyPointTops []string
}

var seriousTokens = tokenSet{
	subjects: []string{
		"trade secrets",
		"customer data",
		"a patented algorithm",
		"pension funds",
		"a warehouse lease",
		"toxic waste disposal",
	},
	caseTypes: []string{
		"Corporate Espionage",
		"Breach of Contract",
		"Copyright Infringement",
		"Environmental Violation",
		"Securities Fraud",
		"Wrongful Termination",
	},
	companies: []string{
		"TechCorp",
		"Redwood Logistics",
		"Helix Pharmaceuticals",
		"Northwind Energy",
		"Atlas Bank",
	},
	plaintiffs: []string{
		"a former business partner",
		"a disgruntled shareholder",
		"the state environmental agency",
		"a rival software vendor",
		"a long-time supplier",
	},
	evidence: []string{
		"internal emails",
		"water samples",
		"security footage",
		"bank records",
		"witness testimony",
		"server logs",
	},
	templates: []string{
		"Your client, an executive at {company}, is accused by {plaintiff} of mishandling {subject}. The prosecution relies on {evidence}.",
		"{company} is being sued by {plaintiff} in a {caseType} case over {subject}. The plaintiff has presented {evidence} to the court.",
		"Your client stands accused of {caseType} involving {subject} at {company}. According to {plaintiff}, {evidence} proves it.",
	},
	keyPointTops: []string{
		"the prosecution gathered {evidence} without a warrant",
		"your client was out of the country during the incident",
		"{company} changed its internal policies after the fact",
		"the key witness has a financial stake in the outcome",
		"details of {subject} were already publicly available",
		"the chain of custody was broken twice",
		"{plaintiff} waited three years before filing",
		"similar claims against {company} were dismissed",
	},
}

var humorousTokens = tokenSet{
	subjects: []string{
		"a hardware wallet",
		"a Roomba",
		"the office cookie jar",
		"a glowing green card",
		"a time machine",
		"a prize-winning pumpkin",
	},
	caseTypes: []string{
		"Crypto-Goat Conspiracy",
		"AI Custody Battle",
		"Alien Immigration",
		"Time Traveler's Parking Violation",
		"Haunted Toaster",
		"Dragon Property Damage",
	},
	companies: []string{
		"Galactic Snacks Inc.",
		"Area 51 Gift Shop",
		"Moonbeam Dynamics",
		"Intergalactic Employment Bureau",
		"Yur Honr's Discount Wigs",
	},
	plaintiffs: []string{
		"a suspicious crypto investor",
		"a three-headed alien",
		"a very litigious goose",
		"the ghost of a Victorian butler",
		"a retired wizard",
	},
	evidence: []string{
		"blurry bigfoot photos",
		"a goat's diary",
		"security footage of pigeons",
		"a crumpled treasure map",
		"interpretive dance recordings",
	},
	templates: []string{
		"Your client is accused by {plaintiff} of stealing {subject} from {company}. Yur Honr will be shown {evidence}.",
		"In this {caseType} case, {plaintiff} claims your client turned {subject} into a weapon of mass confusion. {company} has provided {evidence}.",
		"{company} demands damages after {subject} vanished during a full moon. According to {plaintiff}, {evidence} tells the whole story.",
	},
	keyPointTops: []string{
		"{subject} has a documented fear of paperwork",
		"the security camera only recorded pigeons",
		"{plaintiff} once sued a cloud for trespassing",
		"your client was at a kazoo recital at the time",
		"nobody can explain why {evidence} came with a side of cheese",
		"{company} is run by three raccoons in a trench coat",
		"the alleged victim is a garden gnome",
		"yur client's alibi is confirmed by a parrot",
	},
}

// keyPointStarters are shared by both styles.
var keyPointStarters = []string{
	"There is no record that",
	"Witnesses confirm that",
	"The defense can show that",
	"It remains unproven that",
	"Documents suggest that",
	"Yur Honr should note that",
	"The timeline indicates that",
	"Independent experts agree that",
}

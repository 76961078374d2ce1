package entity

import "github.com/pressradar/signal-engine/internal/domain"

// Curated entity list. Major entities get the higher first-mention
// confidence; the list is deliberately skewed toward companies and people
// that move markets when mentioned.
var curatedEntities = []domain.Entity{
	// Companies
	{Name: "Apple", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Microsoft", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Alphabet", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Google", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Amazon", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Nvidia", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Meta", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Tesla", Type: domain.EntityTypeCompany, Major: true},
	{Name: "OpenAI", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Anthropic", Type: domain.EntityTypeCompany, Major: true},
	{Name: "SpaceX", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Goldman Sachs", Type: domain.EntityTypeCompany, Major: true},
	{Name: "JPMorgan", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Morgan Stanley", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Berkshire Hathaway", Type: domain.EntityTypeCompany, Major: true},
	{Name: "BlackRock", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Intel", Type: domain.EntityTypeCompany, Major: true},
	{Name: "AMD", Type: domain.EntityTypeCompany, Major: true},
	{Name: "TSMC", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Samsung", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Netflix", Type: domain.EntityTypeCompany},
	{Name: "Disney", Type: domain.EntityTypeCompany},
	{Name: "Boeing", Type: domain.EntityTypeCompany},
	{Name: "Airbus", Type: domain.EntityTypeCompany},
	{Name: "Pfizer", Type: domain.EntityTypeCompany},
	{Name: "Moderna", Type: domain.EntityTypeCompany},
	{Name: "ExxonMobil", Type: domain.EntityTypeCompany},
	{Name: "Chevron", Type: domain.EntityTypeCompany},
	{Name: "Shell", Type: domain.EntityTypeCompany, Major: true},
	{Name: "Block", Type: domain.EntityTypeCompany},
	{Name: "Arm", Type: domain.EntityTypeCompany},
	{Name: "Oracle", Type: domain.EntityTypeCompany},
	{Name: "Visa", Type: domain.EntityTypeCompany},
	{Name: "Target", Type: domain.EntityTypeCompany},
	{Name: "Stripe", Type: domain.EntityTypeCompany},
	{Name: "Coinbase", Type: domain.EntityTypeCompany},
	{Name: "Palantir", Type: domain.EntityTypeCompany},
	{Name: "Salesforce", Type: domain.EntityTypeCompany},
	{Name: "Uber", Type: domain.EntityTypeCompany},
	{Name: "Airbnb", Type: domain.EntityTypeCompany},

	// People
	{Name: "Elon Musk", Type: domain.EntityTypePerson, Major: true},
	{Name: "Jerome Powell", Type: domain.EntityTypePerson, Major: true},
	{Name: "Warren Buffett", Type: domain.EntityTypePerson, Major: true},
	{Name: "Sam Altman", Type: domain.EntityTypePerson, Major: true},
	{Name: "Jensen Huang", Type: domain.EntityTypePerson, Major: true},
	{Name: "Tim Cook", Type: domain.EntityTypePerson, Major: true},
	{Name: "Satya Nadella", Type: domain.EntityTypePerson, Major: true},
	{Name: "Mark Zuckerberg", Type: domain.EntityTypePerson, Major: true},
	{Name: "Jamie Dimon", Type: domain.EntityTypePerson, Major: true},
	{Name: "Janet Yellen", Type: domain.EntityTypePerson},
	{Name: "Christine Lagarde", Type: domain.EntityTypePerson},
	{Name: "Gary Gensler", Type: domain.EntityTypePerson},
	{Name: "Lina Khan", Type: domain.EntityTypePerson},
	{Name: "Cathie Wood", Type: domain.EntityTypePerson},

	// Organizations
	{Name: "Federal Reserve", Type: domain.EntityTypeOrganization, Major: true},
	{Name: "SEC", Type: domain.EntityTypeOrganization, Major: true},
	{Name: "FTC", Type: domain.EntityTypeOrganization},
	{Name: "DOJ", Type: domain.EntityTypeOrganization},
	{Name: "European Central Bank", Type: domain.EntityTypeOrganization},
	{Name: "Bank of Japan", Type: domain.EntityTypeOrganization},
	{Name: "Treasury Department", Type: domain.EntityTypeOrganization},
	{Name: "IMF", Type: domain.EntityTypeOrganization},
	{Name: "World Bank", Type: domain.EntityTypeOrganization},
	{Name: "OPEC", Type: domain.EntityTypeOrganization},
}

// commonWordNames are entity names that are also ordinary English words (or
// short tokens that occur inside unrelated words). These must be matched with
// word-boundary regexes: "Shell" inside "bombshell" is not the company.
var commonWordNames = map[string]bool{
	"shell":  true,
	"block":  true,
	"arm":    true,
	"meta":   true,
	"oracle": true,
	"visa":   true,
	"target": true,
	"apple":  true,
	"amazon": true,
	"sec":    true,
	"ftc":    true,
	"doj":    true,
	"amd":    true,
	"imf":    true,
	"opec":   true,
	"uber":   true,
	"square": true,
	"gap":    true,
}

// Sentiment keyword sets for the windowed sentiment heuristic.
var positiveWords = map[string]bool{
	"surge": true, "surges": true, "surged": true,
	"gain": true, "gains": true, "gained": true,
	"rally": true, "rallies": true, "rallied": true,
	"soar": true, "soars": true, "soared": true,
	"jump": true, "jumps": true, "jumped": true,
	"rise": true, "rises": true, "rose": true,
	"beat": true, "beats": true,
	"record": true, "breakthrough": true, "milestone": true,
	"profit": true, "profits": true, "profitable": true,
	"growth": true, "grow": true, "grows": true, "growing": true,
	"strong": true, "strength": true, "robust": true,
	"upgrade": true, "upgraded": true, "outperform": true,
	"win": true, "wins": true, "won": true,
	"success": true, "successful": true,
	"boost": true, "boosts": true, "boosted": true,
	"approval": true, "approved": true, "approves": true,
	"expansion": true, "expands": true, "bullish": true,
	"raises": true, "raised": true, "funding": true,
}

var negativeWords = map[string]bool{
	"plunge": true, "plunges": true, "plunged": true,
	"crash": true, "crashes": true, "crashed": true,
	"fall": true, "falls": true, "fell": true,
	"drop": true, "drops": true, "dropped": true,
	"slump": true, "slumps": true, "slumped": true,
	"tumble": true, "tumbles": true, "tumbled": true,
	"loss": true, "losses": true, "lose": true, "loses": true,
	"miss": true, "misses": true, "missed": true,
	"decline": true, "declines": true, "declined": true,
	"weak": true, "weakness": true, "struggling": true,
	"downgrade": true, "downgraded": true, "underperform": true,
	"lawsuit": true, "sued": true, "sues": true,
	"investigation": true, "probe": true, "fraud": true,
	"layoff": true, "layoffs": true, "cuts": true,
	"bankruptcy": true, "bankrupt": true, "default": true,
	"recall": true, "fine": true, "fined": true, "penalty": true,
	"warning": true, "warns": true, "warned": true,
	"bearish": true, "fear": true, "fears": true,
	"scandal": true, "crisis": true, "collapse": true,
}

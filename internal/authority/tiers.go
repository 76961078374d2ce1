package authority

// Curated source lists. Tier 1 sources break news or publish original
// analysis, tier 2 are quality financial/tech press, tier 3 are mainstream
// outlets and aggregators. Kept as data so the lists can be audited and
// extended without touching classifier logic.

var tierNames = map[int][]string{
	1: {
		"the information",
		"stratechery",
		"money stuff",
		"doomberg",
		"net interest",
		"the diff",
		"bits about money",
		"apricitas economics",
		"construction physics",
		"sec filings",
		"federal register",
		"hacker news",
	},
	2: {
		"bloomberg",
		"financial times",
		"the wall street journal",
		"wall street journal",
		"the economist",
		"reuters",
		"politico",
		"axios",
		"wired",
		"ars technica",
		"techcrunch",
		"semafor",
		"the verge",
		"protocol",
	},
	3: {
		"cnbc",
		"cnn",
		"bbc news",
		"bbc",
		"the new york times",
		"the washington post",
		"the guardian",
		"business insider",
		"forbes",
		"yahoo finance",
		"marketwatch",
		"usa today",
		"associated press",
		"google news",
	},
}

var tierDomains = map[int][]string{
	1: {
		"theinformation.com",
		"stratechery.com",
		"doomberg.substack.com",
		"netinterest.email",
		"thediff.co",
		"bitsaboutmoney.com",
		"apricitas.io",
		"constructionphysics.substack.com",
		"sec.gov",
		"federalregister.gov",
		"news.ycombinator.com",
		"substack.com",
	},
	2: {
		"bloomberg.com",
		"ft.com",
		"wsj.com",
		"economist.com",
		"reuters.com",
		"politico.com",
		"axios.com",
		"wired.com",
		"arstechnica.com",
		"techcrunch.com",
		"semafor.com",
		"theverge.com",
	},
	3: {
		"cnbc.com",
		"cnn.com",
		"bbc.com",
		"bbc.co.uk",
		"nytimes.com",
		"washingtonpost.com",
		"theguardian.com",
		"businessinsider.com",
		"forbes.com",
		"finance.yahoo.com",
		"marketwatch.com",
		"usatoday.com",
		"apnews.com",
	},
}

package ranking

import "regexp"

// WeightedPattern pairs a compiled pattern with the points it contributes.
// Tables are data, not logic, so they can be audited and extended without
// touching the scorer.
type WeightedPattern struct {
	Pattern *regexp.Regexp
	Weight  float64
}

func table(entries map[string]float64) []WeightedPattern {
	out := make([]WeightedPattern, 0, len(entries))
	for expr, w := range entries {
		out = append(out, WeightedPattern{Pattern: regexp.MustCompile(`(?i)` + expr), Weight: w})
	}
	return out
}

// magnitudePatterns measure how big a story is: money at stake, blast
// radius, regulatory reach, deal activity, filing types.
var magnitudePatterns = table(map[string]float64{
	// financial scale
	`\btrillion\b`:           10,
	`\bbillion\b`:            7,
	`\$\d+(\.\d+)?\s*b\b`:    7,
	`\bmillion\b`:            3,
	`\brecord\s+(high|low)`:  5,
	`\ball[- ]time\s+high\b`: 5,

	// blast radius
	`\bglobal(ly)?\b`:     6,
	`\bnationwide\b`:      5,
	`\bworldwide\b`:       6,
	`\bwar\b`:             8,
	`\bpandemic\b`:        8,
	`\bcrisis\b`:          6,
	`\bcollapse\b`:        7,
	`\bshutdown\b`:        5,
	`\bmass\s+layoffs?\b`: 6,

	// regulatory and policy
	`\bantitrust\b`:           6,
	`\bsanctions?\b`:          5,
	`\btariffs?\b`:            5,
	`\bregulat(or|ion|ory)\b`: 4,
	`\bsubpoena\b`:            5,
	`\bindict(ed|ment)\b`:     7,
	`\blawsuit\b`:             4,
	`\bban(ned|s)?\b`:         4,
	`\binterest\s+rates?\b`:   5,
	`\brate\s+(hike|cut)\b`:   6,
	`\bexecutive\s+order\b`:   5,
	`\bfomc\b`:                6,

	// deals
	`\bacqui(re[sd]?|sition)\b`: 6,
	`\bmerger?\b`:               6,
	`\btakeover\b`:              6,
	`\bbuyout\b`:                5,
	`\bipo\b`:                   5,
	`\bgoes?\s+public\b`:        5,
	`\bbankrupt(cy)?\b`:         8,
	`\bdefault(ed|s)?\s+on\b`:   6,

	// filings
	`\b8-k\b`:               5,
	`\b10-k\b`:              4,
	`\b10-q\b`:              3,
	`\bs-1\b`:               6,
	`\b13[df]\b`:            4,
	`\bproxy\s+statement\b`: 3,
})

// voicePatterns catch named high-authority speakers: executives the market
// actually moves on, the central bank chair, named regulators and officials.
var voicePatterns = table(map[string]float64{
	`\bjerome\s+powell\b`:           10,
	`\bfed\s+chair\b`:               10,
	`\bjanet\s+yellen\b`:            9,
	`\btreasury\s+secretary\b`:      8,
	`\bsec\s+chair\b`:               8,
	`\bgary\s+gensler\b`:            8,
	`\blina\s+khan\b`:               7,
	`\bftc\s+chair\b`:               7,
	`\bdoj\b`:                       5,
	`\battorney\s+general\b`:        6,
	`\bpresident\s+(biden|trump)\b`: 8,
	`\bwhite\s+house\b`:             6,
	`\bsupreme\s+court\b`:           7,

	`\belon\s+musk\b`:       8,
	`\bsam\s+altman\b`:      8,
	`\btim\s+cook\b`:        7,
	`\bsatya\s+nadella\b`:   7,
	`\bsundar\s+pichai\b`:   7,
	`\bmark\s+zuckerberg\b`: 7,
	`\bjensen\s+huang\b`:    7,
	`\bjamie\s+dimon\b`:     7,
	`\bwarren\s+buffett\b`:  7,
	`\bjeff\s+bezos\b`:      6,
	`\bdario\s+amodei\b`:    6,

	`\bceo\b`:                      3,
	`\bcfo\b`:                      2,
	`\bchairman\b`:                 2,
	`\bspokes(person|man|woman)\b`: 1,
})

// originalPatterns reward language that marks first-hand reporting.
var originalPatterns = table(map[string]float64{
	`\bexclusive(ly)?\b`:                    8,
	`\bbreaking\b`:                          6,
	`\bscoop\b`:                             7,
	`\binvestigation\b`:                     6,
	`\bobtained\s+by\b`:                     6,
	`\bfirst\s+reported\b`:                  5,
	`\bsources?\s+(say|tell|told|familiar)`: 5,
	`\binterview\s+with\b`:                  4,
	`\banalysis\b`:                          3,
	`\bdeep\s+dive\b`:                       3,
})

// derivativePatterns penalize reactive, second-hand coverage.
var derivativePatterns = table(map[string]float64{
	`\breacts?\s+to\b`:                          5,
	`\bresponds?\s+to\b`:                        4,
	`\bfollowing\s+reports?\b`:                  5,
	`\baccording\s+to\s+(a\s+)?report\b`:        4,
	`\bas\s+reported\s+by\b`:                    5,
	`\broundup\b`:                               4,
	`\bwhat\s+(you|we)\s+(need\s+to\s+)?know\b`: 3,
	`\beverything\s+(you|we)\s+know\b`:          3,
	`\brecap\b`:                                 3,
	`\bweighs?\s+in\b`:                          3,
})

// scorePatterns sums the weights of every pattern that matches the text.
func scorePatterns(text string, patterns []WeightedPattern) float64 {
	var sum float64
	for i := range patterns {
		if patterns[i].Pattern.MatchString(text) {
			sum += patterns[i].Weight
		}
	}
	return sum
}

package analyze

// topicVocabulary is the fixed business vocabulary scanned for topic
// clusters. Phrases are matched on word boundaries against the lowercased
// title and content.
var topicVocabulary = []string{
	"artificial intelligence",
	"machine learning",
	"automation",
	"digital transformation",
	"cloud computing",
	"cybersecurity",
	"blockchain",
	"data analytics",
	"e-commerce",
	"supply chain",
	"sustainability",
	"renewable energy",
	"electric vehicle",
	"battery",
	"semiconductor",
	"5g",
	"internet of things",
	"fintech",
	"healthcare",
	"biotech",
	"startup",
	"venture capital",
	"merger",
	"acquisition",
	"ipo",
	"regulation",
	"inflation",
	"interest rate",
	"consumer spending",
	"market share",
	"remote work",
	"manufacturing",
}

// companyKeywords and technologyKeywords drive best-effort entity mention
// extraction in key content.
var companyKeywords = []string{
	"google", "microsoft", "apple", "amazon", "meta", "tesla", "nvidia",
	"openai", "samsung", "intel", "ibm", "oracle", "salesforce", "siemens",
	"toyota", "volkswagen", "byd", "catl", "tsmc", "bosch",
}

var technologyKeywords = []string{
	"ai", "machine learning", "cloud", "blockchain", "5g", "iot", "robotics",
	"solar", "wind power", "hydrogen", "lithium", "solid state", "quantum",
	"api", "saas", "edge computing",
}

// stopWords excluded from key-phrase extraction.
var stopWords = map[string]bool{
	"a": true, "about": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true,
	"be": true, "been": true, "but": true, "by": true, "can": true,
	"could": true, "did": true, "do": true, "does": true, "for": true,
	"from": true, "had": true, "has": true, "have": true, "he": true,
	"her": true, "his": true, "how": true, "if": true, "in": true,
	"into": true, "is": true, "it": true, "its": true, "just": true,
	"like": true, "more": true, "most": true, "new": true, "no": true,
	"not": true, "of": true, "on": true, "one": true, "or": true,
	"other": true, "our": true, "out": true, "over": true, "said": true,
	"she": true, "so": true, "some": true, "such": true, "than": true,
	"that": true, "the": true, "their": true, "them": true, "then": true,
	"there": true, "these": true, "they": true, "this": true, "to": true,
	"up": true, "was": true, "we": true, "were": true, "what": true,
	"when": true, "which": true, "who": true, "will": true, "with": true,
	"would": true, "you": true, "your": true,
}

// positiveWords and negativeWords form the sentiment lexicon. Hits are
// counted per token and normalized by token count.
var positiveWords = map[string]bool{
	"excellent": true, "outstanding": true, "strong": true, "success": true,
	"successful": true, "growth": true, "growing": true, "gain": true,
	"gains": true, "profit": true, "profitable": true, "opportunity": true,
	"opportunities": true, "innovation": true, "innovative": true,
	"breakthrough": true, "improvement": true, "improved": true,
	"record": true, "surge": true, "boom": true, "expansion": true,
	"expanding": true, "advantage": true, "efficient": true, "boost": true,
	"momentum": true, "optimistic": true, "upbeat": true, "rally": true,
	"demand": true, "win": true, "wins": true, "leading": true,
}

var negativeWords = map[string]bool{
	"decline": true, "declining": true, "loss": true, "losses": true,
	"risk": true, "risks": true, "threat": true, "threats": true,
	"failure": true, "failing": true, "crisis": true, "shortage": true,
	"shortages": true, "drop": true, "falling": true, "weak": true,
	"weakness": true, "concern": true, "concerns": true, "problem": true,
	"problems": true, "lawsuit": true, "recall": true, "layoffs": true,
	"bankruptcy": true, "downturn": true, "recession": true, "slump": true,
	"delay": true, "delays": true, "breach": true, "fraud": true,
	"volatile": true, "uncertainty": true,
}

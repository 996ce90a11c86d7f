package analyzer

// stopWords are dropped from keyword density. The list also holds a few
// markup-related words that are noise in page text.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "all": {},
	"an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "because": {},
	"before": {}, "below": {}, "between": {}, "both": {}, "but": {}, "by": {}, "can": {},
	"content": {}, "did": {}, "do": {}, "does": {}, "don": {}, "don't": {}, "down": {},
	"during": {}, "each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "get": {},
	"got": {}, "has": {}, "he": {}, "here": {}, "how": {}, "html": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "ll": {}, "me": {},
	"meta": {}, "more": {}, "most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {},
	"of": {}, "off": {}, "on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {},
	"out": {}, "over": {}, "own": {}, "page": {}, "s": {}, "same": {}, "should": {},
	"shouldn't": {}, "so": {}, "some": {}, "such": {}, "t": {}, "tag": {}, "than": {},
	"that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {},
	"they": {}, "this": {}, "those": {}, "through": {}, "to": {}, "too": {}, "under": {},
	"until": {}, "up": {}, "ve": {}, "very": {}, "was": {}, "we": {}, "were": {},
	"when": {}, "where": {}, "why": {}, "will": {}, "with": {}, "you": {},
}

package catalog

var positiveComments = []string{
	"Great product, exactly as described!",
	"Fast shipping and excellent packaging.",
	"Item arrived in perfect condition.",
	"Very satisfied with my purchase.",
	"Seller was very professional and responsive.",
	"Product quality exceeded my expectations.",
	"Would definitely buy from this seller again.",
	"Item was exactly what I was looking for.",
	"Shipping was faster than expected.",
	"Excellent communication throughout the process.",
	"The item is perfect for my needs!",
	"Great value for the money.",
	"Seller went above and beyond.",
	"Item was better than expected.",
	"Very happy with this purchase.",
	"Product is exactly what I needed.",
	"Excellent quality and service.",
	"Would buy again in a heartbeat.",
	"Item arrived early and in perfect condition.",
	"Best purchase I've made in a while!",
}

var mixedComments = []string{
	"The item was a bit smaller than I expected.",
	"Product works great, but shipping took longer than expected.",
	"Good quality for the price.",
	"Item arrived damaged, but seller quickly resolved the issue.",
	"Description was accurate, but item was a bit worn.",
	"Decent product, but could be better quality.",
	"Shipping was slow, but item was as described.",
	"Product works fine, but instructions were unclear.",
	"Item was okay, but not worth the price.",
	"Seller was helpful when I had questions.",
	"Product arrived late, but in good condition.",
}

var negativeComments = []string{
	"Item was different from the picture.",
	"Quality is not as good as expected.",
	"Shipping took too long.",
	"Product was damaged upon arrival.",
	"Seller was unresponsive to messages.",
	"Item was missing parts.",
	"Not worth the money spent.",
	"Poor packaging led to damage.",
	"Product stopped working after a few days.",
	"Description was misleading.",
	"Item was used, not new as described.",
	"Very disappointed with this purchase.",
	"Would not recommend this seller.",
	"Product was not as advertised.",
	"Terrible customer service.",
	"Item was broken when it arrived.",
	"Waste of money.",
	"Never buying from this seller again.",
	"Product was a complete disappointment.",
}

// sentimentTier is one band of the synthetic review distribution.
type sentimentTier struct {
	name      string
	weight    float64
	minRating int
	maxRating int
	pool      []string
}

var sentimentTiers = []sentimentTier{
	{name: "positive", weight: 0.6, minRating: 4, maxRating: 5, pool: positiveComments},
	{name: "mixed", weight: 0.3, minRating: 3, maxRating: 4, pool: mixedComments},
	{name: "negative", weight: 0.1, minRating: 1, maxRating: 3, pool: negativeComments},
}

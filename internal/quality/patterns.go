package quality

import "regexp"

// The tables below are matching data consumed by the scorers, not logic.
// They can be swapped for alternative lists without touching any algorithm.

var adNetworkDomains = []string{
	"doubleclick",
	"adsense",
	"taboola",
	"outbrain",
	"advertising.com",
	"ad-server",
	"googletagservices",
	"googletagmanager",
	"amazon-adsystem",
	"adnxs",
	"criteo",
	"openx",
	"rubiconproject",
	"pubmatic",
	"casalemedia",
	"yieldmo",
	"triplelift",
	"indexww",
	"adform",
	"smartadserver",
	"revcontent",
	"mgid",
	"buysellads",
	"carbonads",
	"media.net",
	"adroll",
}

var trackingScriptPatterns = []*regexp.Regexp{
	regexp.MustCompile(`fbq\(`),
	regexp.MustCompile(`gtag\(`),
	regexp.MustCompile(`pixel\.gif`),
	regexp.MustCompile(`quantserve`),
	regexp.MustCompile(`scorecardresearch`),
	regexp.MustCompile(`fullstory`),
	regexp.MustCompile(`hotjar`),
	regexp.MustCompile(`crazyegg`),
	regexp.MustCompile(`mixpanel`),
	regexp.MustCompile(`segment\.io`),
	regexp.MustCompile(`amplitude`),
	regexp.MustCompile(`pendo`),
	regexp.MustCompile(`intercom-track`),
	regexp.MustCompile(`drift-track`),
	regexp.MustCompile(`luckyorange`),
}

var adElementPatterns = []string{
	"ad-slot",
	"ad-container",
	"ad-wrapper",
	"banner-ads",
	"sponsored-content",
	"promoted-item",
	"adsbygoogle",
	"gpt-ad",
	"dfp-ad",
	"native-ad",
	"sidebar-ad",
	"bottom-ad",
}

var contentPathMarkers = []string{
	"/blog/",
	"/post/",
	"/posts/",
	"/article/",
	"/articles/",
	"/writing/",
	"/essays/",
	"/notes/",
}

var commercialPathMarkers = []string{
	"/pricing",
	"/demo",
	"/product",
	"/solutions",
	"/features",
	"/enterprise",
	"/checkout",
	"/cart",
	"/store",
	"/shop",
}

var commercialMetaMarkers = []string{
	`property="og:type" content="product"`,
	`name="twitter:label1" content="price"`,
	`name="keywords" content="buy`,
	`itemprop="price"`,
	`property="product:price`,
}

var footerBoilerplateKeywords = []string{
	"all rights reserved",
	"terms of service",
	"privacy policy",
	"cookie policy",
	"careers",
	"press kit",
	"investor relations",
}

var aggregatorAttributionPhrases = []string{
	"originally published on",
	"this article first appeared",
	"syndicated from",
	"republished with permission",
	"source article",
}

var contentMillPhrases = []string{
	"in this article, we will",
	"in this blog post, we will",
	"without further ado",
	"let's dive in",
	"key takeaways",
	"frequently asked questions",
	"table of contents",
	"disclaimer: this post",
}

var affiliateDisclosurePhrases = []string{
	"affiliate link",
	"affiliate commission",
	"as an amazon associate",
	"we may earn a commission",
	"at no extra cost to you",
}

var salesCopyPhrases = []string{
	"limited time offer",
	"money-back guarantee",
	"trusted by thousands",
	"best-in-class",
	"industry-leading",
	"supercharge your",
	"unlock the power",
}

var ctaButtonKeywords = []string{
	"buy",
	"purchase",
	"order now",
	"get started",
	"sign up",
	"try free",
	"free trial",
	"download",
	"subscribe",
	"add to cart",
	"shop now",
	"buy now",
	"book a demo",
	"contact sales",
	"request demo",
}

var cartPhrases = []string{
	"add to cart",
	"shopping cart",
	"shopping bag",
	"proceed to checkout",
	"out of stock",
	"low stock",
	"add to bag",
	"add to wishlist",
}

var paymentMethodNames = []string{
	"paypal",
	"visa",
	"mastercard",
	"amex",
	"discover",
	"apple pay",
	"google pay",
}

var pricingPhrases = []string{
	"price:",
	"pricing",
	"from $",
	"starting at $",
	"/month",
	"/year",
}

var servicePhrases = []string{
	"we offer",
	"our service",
	"we provide",
	"we help you",
	"buy followers",
	"buy likes",
	"increase your",
	"humanize text",
	"get more",
	"boost your",
}

var socialSpamKeywords = []string{
	"buy followers",
	"buy likes",
	"buy subscribers",
	"buy views",
	"cheap followers",
	"real followers",
	"instagram followers",
	"tiktok followers",
	"youtube subscribers",
	"boost your engagement",
	"increase followers",
	"grow your audience fast",
}

var seoToolKeywords = []string{
	"paraphrase",
	"paraphrasing tool",
	"rewrite text",
	"article rewriter",
	"spin text",
	"humanize text",
	"humanize ai",
	"undetectable ai",
	"bypass ai detector",
	"plagiarism checker",
	"seo tool",
}

var blogLinkMarkers = []string{
	"/blog/",
	"/post/",
	"/posts/",
	"/article/",
	"/articles/",
	"/news/",
	"/writing/",
	"/essays/",
	"/20", // year prefix in permalinks
}

var personalDomainKeywords = []string{
	"blog",
	"personal",
	"me",
	"notes",
	"thoughts",
	"journal",
}

var excludedTitlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)privacy\s+policy`),
	regexp.MustCompile(`(?i)terms\s+of\s+use`),
	regexp.MustCompile(`(?i)terms\s+of\s+service`),
	regexp.MustCompile(`(?i)legal\s+notice`),
	regexp.MustCompile(`(?i)cookie\s+policy`),
	regexp.MustCompile(`(?i)^home\s*[-|]`),
	regexp.MustCompile(`(?i)\blogin\b`),
	regexp.MustCompile(`(?i)\bsign\s+up\b`),
	regexp.MustCompile(`(?i)\bsign\s+in\b`),
	regexp.MustCompile(`(?i)\bregister\b`),
	regexp.MustCompile(`(?i)about us`),
	regexp.MustCompile(`(?i)release notes`),
	regexp.MustCompile(`(?i)changelog`),
}

// stopwords is a compact English function-word list used for prose density.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "of": {}, "to": {}, "in": {}, "a": {}, "for": {},
	"is": {}, "on": {}, "with": {}, "as": {}, "by": {}, "at": {}, "from": {},
	"that": {}, "this": {}, "it": {}, "an": {}, "be": {}, "or": {}, "are": {},
	"was": {}, "were": {}, "will": {}, "has": {}, "have": {}, "had": {},
	"but": {}, "not": {}, "your": {}, "you": {}, "we": {}, "our": {}, "i": {},
	"my": {}, "me": {}, "they": {}, "their": {}, "he": {}, "she": {}, "his": {},
	"her": {}, "its": {}, "so": {}, "if": {}, "then": {}, "than": {}, "when": {},
	"what": {}, "which": {}, "who": {}, "how": {}, "all": {}, "can": {},
	"about": {}, "into": {}, "out": {}, "up": {}, "down": {}, "over": {},
	"there": {}, "here": {}, "been": {}, "would": {}, "could": {}, "should": {},
	"do": {}, "does": {}, "did": {}, "just": {}, "more": {}, "some": {},
	"no": {}, "one": {}, "also": {}, "because": {}, "after": {}, "before": {},
}

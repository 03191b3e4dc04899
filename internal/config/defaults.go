package config

// DefaultConfig returns a fully populated configuration with the stock
// policy tables.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero values with defaults. Explicitly configured
// values are left untouched.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}

	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "data/kensho.db"
	}
	if c.Storage.GraphPath == "" {
		c.Storage.GraphPath = "data/citation_network.json"
	}
	if c.Storage.TimelinePath == "" {
		c.Storage.TimelinePath = "data/fact_timeline.json"
	}
	if c.Storage.FactIndexPath == "" {
		c.Storage.FactIndexPath = "data/factcheck.bleve"
	}

	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 3600
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 4096
	}

	w := &c.Verify.Weights
	if w.OfficialSource == 0 {
		w.OfficialSource = 0.35
	}
	if w.FactChecker == 0 {
		w.FactChecker = 0.25
	}
	if w.SourceCredibility == 0 {
		w.SourceCredibility = 0.15
	}
	if w.TemporalConsistency == 0 {
		w.TemporalConsistency = 0.10
	}
	if w.ImageAuthenticity == 0 {
		w.ImageAuthenticity = 0.15
	}
	if c.Verify.FlagThreshold == 0 {
		c.Verify.FlagThreshold = 0.65
	}
	if c.Verify.ReasonFloor == 0 {
		c.Verify.ReasonFloor = 0.60
	}
	if c.Verify.CollectorTimeoutSeconds == 0 {
		c.Verify.CollectorTimeoutSeconds = 10
	}
	if c.Verify.FlaggedCapacity == 0 {
		c.Verify.FlaggedCapacity = 100
	}

	if c.Graph.MaxCycleLength == 0 {
		c.Graph.MaxCycleLength = 8
	}
	if c.Graph.MaxCycles == 0 {
		c.Graph.MaxCycles = 256
	}
	if c.Graph.MaxNetworkDepth == 0 {
		c.Graph.MaxNetworkDepth = 4
	}

	if c.Timeline.MinSharedTokens == 0 {
		c.Timeline.MinSharedTokens = 3
	}
	if c.Timeline.DefaultWindowDays == 0 {
		c.Timeline.DefaultWindowDays = 30
	}

	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "kensho/1.0"
	}
	if c.Fetch.RequestsPerSecond == 0 {
		c.Fetch.RequestsPerSecond = 2
	}
	if c.Fetch.MaxBodyBytes == 0 {
		c.Fetch.MaxBodyBytes = 2 << 20
	}
	if c.Fetch.RetryMax == 0 {
		c.Fetch.RetryMax = 2
	}
	if c.Fetch.TimeoutSeconds == 0 {
		c.Fetch.TimeoutSeconds = 10
	}

	c.Policy.applyDefaults()
}

func (p *PolicyConfig) applyDefaults() {
	if p.Authorities == nil {
		p.Authorities = []AuthorityRule{
			{
				Name:     "PIB India",
				URL:      "https://pib.gov.in/PressReleasePage.aspx",
				Keywords: []string{"government", "minister", "ministry", "scheme", "policy", "announced"},
				Score:    0.95,
			},
			{
				Name:     "RBI",
				URL:      "https://www.rbi.org.in/Scripts/BS_PressReleaseDisplay.aspx",
				Keywords: []string{"rbi", "reserve bank", "monetary policy", "interest rate", "repo rate"},
				Score:    0.95,
			},
			{
				Name:     "WHO",
				URL:      "https://www.who.int/news",
				Keywords: []string{"health", "disease", "vaccine", "pandemic", "who", "medical"},
				Score:    0.92,
			},
		}
	}
	if p.Agencies == nil {
		p.Agencies = []string{"pti", "ani", "reuters", "ap", "the hindu", "indian express"}
	}
	if p.FactCheckSites == nil {
		p.FactCheckSites = []string{
			"https://www.altnews.in",
			"https://www.boomlive.in",
			"https://www.factchecker.in",
			"https://factly.in",
			"https://newsmobile.in",
		}
	}
	if p.DebunkTerms == nil {
		p.DebunkTerms = []string{"false", "fake", "misleading", "debunked"}
	}
	if p.VerifyTerms == nil {
		p.VerifyTerms = []string{"true", "verified", "correct"}
	}
	if p.Tier1Sources == nil {
		p.Tier1Sources = []string{
			"pti", "ani", "reuters", "associated press", "bbc",
			"the hindu", "indian express", "times of india", "hindustan times",
			"ndtv", "the wire", "scroll.in", "thequint",
		}
	}
	if p.Tier2Sources == nil {
		p.Tier2Sources = []string{
			"india today", "news18", "firstpost", "livemint",
			"business standard", "economic times", "moneycontrol",
		}
	}
	if p.UnreliableSources == nil {
		p.UnreliableSources = []string{"opindia", "postcard", "swarajya", "tfipost"}
	}
	if p.Tier1Score == 0 {
		p.Tier1Score = 0.92
	}
	if p.Tier2Score == 0 {
		p.Tier2Score = 0.80
	}
	if p.UnreliableScore == 0 {
		p.UnreliableScore = 0.35
	}
	if p.StockPhotoDomains == nil {
		p.StockPhotoDomains = []string{
			"shutterstock", "gettyimages", "istockphoto", "stock.adobe",
			"unsplash", "pexels", "pixabay", "freepik", "depositphotos",
		}
	}
	if p.AntonymPairs == nil {
		p.AntonymPairs = [][]string{
			{"will", "will not"},
			{"confirmed", "denied"},
			{"true", "false"},
			{"increase", "decrease"},
			{"approve", "reject"},
			{"support", "oppose"},
		}
	}
}

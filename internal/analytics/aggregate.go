// Package analytics turns a slice of review records into the dashboard
// metrics bundle. Aggregation is a pure computation over the given slice only;
// whether that slice is one page or the full filtered result is the caller's
// choice.
package analytics

import (
	"math"
	"sort"
	"strings"

	"delivery_reviews/internal/domain"
)

const (
	unknownPriceRange = "Unknown"
	noDiscount        = "No Discount"
	generalComplaint  = "General Complaint"

	rankSize     = 3
	excerptRunes = 50
	maxExamples  = 2
)

type LocationRating struct {
	Location  string  `json:"location"`
	AvgRating float64 `json:"avgRating"`
}

type AgentRating struct {
	AgentName string  `json:"agentName"`
	Rating    float64 `json:"rating"`
}

type ComplaintCluster struct {
	Type    string `json:"type"`
	Count   int    `json:"count"`
	Example string `json:"example"`
}

type MetricsBundle struct {
	TotalOrders int `json:"totalOrders"`
	// AverageRating is 0 when the input slice is empty.
	AverageRating         float64            `json:"averageRating"`
	ActiveAgents          int                `json:"activeAgents"`
	AvgRatingsPerLocation []LocationRating   `json:"avgRatingsPerLocation"`
	TopAgents             []AgentRating      `json:"topAgents"`
	BottomAgents          []AgentRating      `json:"bottomAgents"`
	Complaints            int                `json:"complaints"`
	PriceRangeOrders      Histogram          `json:"priceRangeOrders"`
	DiscountDistribution  Histogram          `json:"discountDistribution"`
	CommonComplaints      []ComplaintCluster `json:"commonComplaints"`
}

// Aggregate computes the full metrics bundle over records. Large inputs are
// sharded across workers; the merge is deterministic, so the result is
// identical to a single pass.
func Aggregate(records []domain.Review) MetricsBundle {
	if len(records) >= parallelThreshold {
		return aggregateSharded(records, defaultShards)
	}
	acc := newAccumulator()
	for i := range records {
		acc.add(&records[i])
	}
	return acc.finalize()
}

type groupStats struct {
	total float64
	count int
}

func (g *groupStats) mean() float64 { return g.total / float64(g.count) }

type complaintStats struct {
	count    int
	examples []string
}

// accumulator holds one pass's (or one shard's) partial state. Key ordering
// slices preserve first-seen order so the output is stable.
type accumulator struct {
	count     int
	ratingSum float64

	locOrder []string
	loc      map[string]*groupStats

	agentOrder []string
	agents     map[string]*groupStats

	priceOrder []string
	price      map[string]int

	discOrder []string
	disc      map[string]int

	complaints int
	compOrder  []string
	comps      map[string]*complaintStats
}

func newAccumulator() *accumulator {
	return &accumulator{
		loc:    make(map[string]*groupStats),
		agents: make(map[string]*groupStats),
		price:  make(map[string]int),
		disc:   make(map[string]int),
		comps:  make(map[string]*complaintStats),
	}
}

func (a *accumulator) add(r *domain.Review) {
	a.count++
	a.ratingSum += r.Rating

	if g, ok := a.loc[r.Location]; ok {
		g.total += r.Rating
		g.count++
	} else {
		a.loc[r.Location] = &groupStats{total: r.Rating, count: 1}
		a.locOrder = append(a.locOrder, r.Location)
	}

	if g, ok := a.agents[r.AgentName]; ok {
		g.total += r.Rating
		g.count++
	} else {
		a.agents[r.AgentName] = &groupStats{total: r.Rating, count: 1}
		a.agentOrder = append(a.agentOrder, r.AgentName)
	}

	pr := r.PriceRange
	if pr == "" {
		pr = unknownPriceRange
	}
	if _, ok := a.price[pr]; !ok {
		a.priceOrder = append(a.priceOrder, pr)
	}
	a.price[pr]++

	dr := r.DiscountRange
	if dr == "" {
		dr = noDiscount
	}
	if _, ok := a.disc[dr]; !ok {
		a.discOrder = append(a.discOrder, dr)
	}
	a.disc[dr]++

	if r.CustomerFeedbackType == domain.SentimentNegative && r.ReviewText != "" {
		a.complaints++
		ct := r.ComplaintType
		if ct == "" {
			ct = generalComplaint
		}
		cs, ok := a.comps[ct]
		if !ok {
			cs = &complaintStats{}
			a.comps[ct] = cs
			a.compOrder = append(a.compOrder, ct)
		}
		cs.count++
		if len(cs.examples) < maxExamples {
			cs.examples = append(cs.examples, excerpt(r.ReviewText))
		}
	}
}

// merge folds b into a. Callers merge shards in input order, which keeps
// first-seen ordering identical to a single sequential pass.
func (a *accumulator) merge(b *accumulator) {
	a.count += b.count
	a.ratingSum += b.ratingSum
	a.complaints += b.complaints

	for _, k := range b.locOrder {
		if g, ok := a.loc[k]; ok {
			g.total += b.loc[k].total
			g.count += b.loc[k].count
		} else {
			cp := *b.loc[k]
			a.loc[k] = &cp
			a.locOrder = append(a.locOrder, k)
		}
	}
	for _, k := range b.agentOrder {
		if g, ok := a.agents[k]; ok {
			g.total += b.agents[k].total
			g.count += b.agents[k].count
		} else {
			cp := *b.agents[k]
			a.agents[k] = &cp
			a.agentOrder = append(a.agentOrder, k)
		}
	}
	for _, k := range b.priceOrder {
		if _, ok := a.price[k]; !ok {
			a.priceOrder = append(a.priceOrder, k)
		}
		a.price[k] += b.price[k]
	}
	for _, k := range b.discOrder {
		if _, ok := a.disc[k]; !ok {
			a.discOrder = append(a.discOrder, k)
		}
		a.disc[k] += b.disc[k]
	}
	for _, k := range b.compOrder {
		cs, ok := a.comps[k]
		if !ok {
			cs = &complaintStats{}
			a.comps[k] = cs
			a.compOrder = append(a.compOrder, k)
		}
		cs.count += b.comps[k].count
		for _, ex := range b.comps[k].examples {
			if len(cs.examples) >= maxExamples {
				break
			}
			cs.examples = append(cs.examples, ex)
		}
	}
}

func (a *accumulator) finalize() MetricsBundle {
	m := MetricsBundle{
		TotalOrders:           a.count,
		ActiveAgents:          len(a.agents),
		Complaints:            a.complaints,
		AvgRatingsPerLocation: []LocationRating{},
		TopAgents:             []AgentRating{},
		BottomAgents:          []AgentRating{},
		PriceRangeOrders:      Histogram{},
		DiscountDistribution:  Histogram{},
		CommonComplaints:      []ComplaintCluster{},
	}
	if a.count > 0 {
		m.AverageRating = a.ratingSum / float64(a.count)
	}

	for _, l := range a.locOrder {
		m.AvgRatingsPerLocation = append(m.AvgRatingsPerLocation, LocationRating{
			Location:  l,
			AvgRating: round1(a.loc[l].mean()),
		})
	}

	ranked := make([]AgentRating, 0, len(a.agentOrder))
	for _, name := range a.agentOrder {
		ranked = append(ranked, AgentRating{AgentName: name, Rating: round1(a.agents[name].mean())})
	}
	m.TopAgents = rank(ranked, a.agents, true)
	m.BottomAgents = rank(ranked, a.agents, false)

	m.PriceRangeOrders = sortPriceBuckets(a.priceOrder, a.price)

	discKeys := append([]string(nil), a.discOrder...)
	sort.Strings(discKeys)
	for _, k := range discKeys {
		m.DiscountDistribution = append(m.DiscountDistribution, Bucket{Key: k, Count: a.disc[k]})
	}

	compKeys := append([]string(nil), a.compOrder...)
	sort.SliceStable(compKeys, func(i, j int) bool {
		ci, cj := a.comps[compKeys[i]].count, a.comps[compKeys[j]].count
		if ci != cj {
			return ci > cj
		}
		return compKeys[i] < compKeys[j]
	})
	for _, k := range compKeys {
		cs := a.comps[k]
		ex := ""
		if len(cs.examples) > 0 {
			ex = cs.examples[0]
		}
		m.CommonComplaints = append(m.CommonComplaints, ComplaintCluster{Type: k, Count: cs.count, Example: ex})
	}

	return m
}

// rank sorts by mean rating (unrounded) and breaks ties by agent name
// ascending, then keeps the first three.
func rank(ranked []AgentRating, stats map[string]*groupStats, descending bool) []AgentRating {
	out := append([]AgentRating(nil), ranked...)
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := stats[out[i].AgentName].mean(), stats[out[j].AgentName].mean()
		if mi != mj {
			if descending {
				return mi > mj
			}
			return mi < mj
		}
		return out[i].AgentName < out[j].AgentName
	})
	if len(out) > rankSize {
		out = out[:rankSize]
	}
	return out
}

// sortPriceBuckets orders keys with a parseable integer prefix numerically
// first, then the rest in discovery order.
func sortPriceBuckets(order []string, counts map[string]int) Histogram {
	type numKey struct {
		key string
		n   int
	}
	var numeric []numKey
	var rest []string
	for _, k := range order {
		if n, ok := intPrefix(k); ok {
			numeric = append(numeric, numKey{key: k, n: n})
		} else {
			rest = append(rest, k)
		}
	}
	sort.SliceStable(numeric, func(i, j int) bool { return numeric[i].n < numeric[j].n })

	h := make(Histogram, 0, len(order))
	for _, nk := range numeric {
		h = append(h, Bucket{Key: nk.key, Count: counts[nk.key]})
	}
	for _, k := range rest {
		h = append(h, Bucket{Key: k, Count: counts[k]})
	}
	return h
}

// intPrefix parses leading digits after optional whitespace and currency
// markers, e.g. "100-200" -> 100, "$50+" -> 50.
func intPrefix(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t$€£₹")
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n := 0
	for _, c := range s[:i] {
		n = n*10 + int(c-'0')
	}
	return n, true
}

// excerpt keeps the first 50 characters of the text plus an ellipsis marker.
func excerpt(text string) string {
	r := []rune(text)
	if len(r) > excerptRunes {
		r = r[:excerptRunes]
	}
	return string(r) + "..."
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }

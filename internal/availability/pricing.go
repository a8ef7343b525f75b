package availability

import "sort"

// GroupPricingTable maps a group size to its price. It belongs to the mentor
// profile and is read-only here.
type GroupPricingTable map[int]int64

// Offers reports whether tier may be assigned to a new or edited rule.
// Solo is always offered; a group tier needs a positive price.
func (p GroupPricingTable) Offers(tier SessionTier) bool {
	if !tier.IsGroup() {
		return true
	}
	return p[int(tier)] > 0
}

// OfferableTiers lists group sizes with a positive price, ascending.
func (p GroupPricingTable) OfferableTiers() []SessionTier {
	out := make([]SessionTier, 0, len(p))
	for size, price := range p {
		if size > 1 && price > 0 {
			out = append(out, SessionTier(size))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

package handlers

import (
	"net/url"

	"finitefield.org/storefront-web/internal/catalog"
	"finitefield.org/storefront-web/internal/listing"
)

// OffersData is the view model for the offers page. An empty Cards slice renders the
// "no discounts" message instead of a grid.
type OffersData struct {
	Cards    []ProductCard
	EmptyKey string
	Error    string
	RetryURL string
}

// BuildOffersData lists discounted products, biggest discount first.
func BuildOffersData(products []catalog.Product, errMsg string, money Money, m Membership) OffersData {
	if errMsg != "" {
		return OffersData{Error: errMsg, RetryURL: "/offers?" + RefreshParam + "=1"}
	}
	return OffersData{
		Cards:    Cards(listing.Discounted(products), money, m),
		EmptyKey: "offers.empty",
	}
}

// SearchData is the view model for the search page.
type SearchData struct {
	Term     string
	Preview  []ProductCard
	Results  []ProductCard
	Total    int
	EmptyKey string
	Error    string
	RetryURL string
}

// BuildSearchData runs a search-only query. Preview is the top of the same result set.
func BuildSearchData(products []catalog.Product, errMsg, term string, money Money, m Membership) SearchData {
	data := SearchData{Term: term}
	if errMsg != "" {
		q := url.Values{listing.ParamSearch: {term}, RefreshParam: {"1"}}
		data.Error = errMsg
		data.RetryURL = "/search?" + q.Encode()
		return data
	}
	if term == "" {
		data.EmptyKey = "search.prompt"
		return data
	}
	matched := listing.Search(products, term)
	data.Total = len(matched)
	data.Preview = Cards(listing.Preview(matched, listing.PreviewSize), money, m)
	data.Results = Cards(matched, money, m)
	if len(matched) == 0 {
		data.EmptyKey = "search.empty"
	}
	return data
}

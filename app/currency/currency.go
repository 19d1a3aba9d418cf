package currency

import (
	"net/http"
	"strings"

	"github.com/vibast-solutions/ms-go-accounts/app/catalog"
	"golang.org/x/text/language"
)

const countryHeader = "CF-IPCountry"

// euroRegions lists ISO 3166 regions whose legal tender is the euro.
var euroRegions = map[string]struct{}{
	"AT": {}, "BE": {}, "HR": {}, "CY": {}, "EE": {}, "FI": {}, "FR": {},
	"DE": {}, "GR": {}, "IE": {}, "IT": {}, "LV": {}, "LT": {}, "LU": {},
	"MT": {}, "NL": {}, "PT": {}, "SK": {}, "SI": {}, "ES": {},
	"AD": {}, "MC": {}, "SM": {}, "VA": {}, "ME": {}, "XK": {},
}

type Resolver struct {
	fallback catalog.Currency
}

// NewResolver returns a resolver falling back to defaultCurrency, or to USD
// when defaultCurrency is not a supported catalog currency.
func NewResolver(defaultCurrency string) *Resolver {
	fallback := catalog.Currency(strings.ToLower(defaultCurrency))
	if !catalog.IsSupportedCurrency(string(fallback)) {
		fallback = catalog.CurrencyUSD
	}
	return &Resolver{fallback: fallback}
}

// FromRequest picks the billing currency for the client behind r.
func (r *Resolver) FromRequest(req *http.Request) catalog.Currency {
	if region := strings.ToUpper(strings.TrimSpace(req.Header.Get(countryHeader))); isRegion(region) {
		return r.forRegion(region)
	}

	tags, _, err := language.ParseAcceptLanguage(req.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return r.fallback
	}
	region, confidence := tags[0].Region()
	if confidence == language.No {
		return r.fallback
	}
	return r.forRegion(region.String())
}

func (r *Resolver) forRegion(region string) catalog.Currency {
	if _, ok := euroRegions[region]; ok {
		return catalog.CurrencyEUR
	}
	return r.fallback
}

func isRegion(code string) bool {
	if len(code) != 2 || code == "XX" || code == "T1" {
		return false
	}
	_, err := language.ParseRegion(code)
	return err == nil
}

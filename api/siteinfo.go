package api

import (
	"net/http"
	"slices"
)

// getSiteInfo serves the organization contact details and the interest options the
// join form offers.
func (a *API) getSiteInfo(w http.ResponseWriter, r *http.Request) {
	interests := slices.Clone(a.site.Interests)
	if interests == nil {
		interests = []string{}
	}

	writeJSON(a.getLoggerOrBaseLogger(r.Context()), w, http.StatusOK, SiteInfo{
		Name:      a.site.Org.Name,
		Email:     a.site.Org.Email,
		City:      a.site.Org.City,
		Instagram: a.site.Org.Instagram,
		TimeZone:  a.site.TimeZone,
		Interests: interests,
	})
}

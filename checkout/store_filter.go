package checkout

import (
	"strings"

	"github.com/surajacharya12/E-commerce-web-sub000/models"
)

// FilterStores keeps active stores whose name, location, manager or manager
// email contains query, ignoring case. An empty query keeps every active store.
func FilterStores(stores []models.Store, query string) []models.Store {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Store, 0, len(stores))
	for _, s := range stores {
		if !s.IsActive {
			continue
		}
		if q == "" || matches(q, s.StoreName, s.StoreLocation, s.StoreManagerName, s.StoreManagerEmail) {
			out = append(out, s)
		}
	}
	return out
}

func matches(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

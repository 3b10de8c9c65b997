// Package shopinfo serves the public shop pages: the about-us summary and
// social network links.
package shopinfo

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-carwash/internal/common"
	"github.com/noah-isme/backend-carwash/internal/pricing"
)

var socialLinks = map[string]string{
	"facebook":  "https://www.facebook.com/login.php/",
	"youtube":   "https://www.youtube.com/",
	"instagram": "https://www.instagram.com/accounts/login/",
	"twitter":   "https://www.twitter.com/login",
}

// ServiceInfo is one entry of the published price list.
type ServiceInfo struct {
	ServiceType pricing.ServiceType `json:"service_type"`
	Label       string              `json:"label"`
	PriceMinor  pricing.Money       `json:"price_minor"`
	Price       string              `json:"price"`
}

type Handler struct {
	ShopName string
	Currency string
	Prices   pricing.Table
}

// AboutUs handles GET /about-us. Clients asking for text/plain receive the
// description as a single text block.
func (h *Handler) AboutUs(w http.ResponseWriter, r *http.Request) {
	services := h.services()
	name := h.ShopName
	if name == "" {
		name = "Carwash"
	}
	description := fmt.Sprintf("%s is a car wash dedicated to top-notch vehicle cleaning with a focus on quality, convenience and customer satisfaction.", name)

	if strings.Contains(r.Header.Get("Accept"), "text/plain") {
		var b strings.Builder
		b.WriteString(description)
		b.WriteString("\nWe offer:\n")
		for _, s := range services {
			fmt.Fprintf(&b, "%s: %s %s\n", s.Label, s.Price, h.Currency)
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(b.String()))
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"name":        name,
		"description": description,
		"currency":    h.Currency,
		"services":    services,
	})
}

type socialRequest struct {
	Name string `json:"name"`
}

// SocialLinks handles POST /social-links by redirecting to the named platform.
func (h *Handler) SocialLinks(w http.ResponseWriter, r *http.Request) {
	var req socialRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	target, ok := socialLinks[strings.ToLower(strings.TrimSpace(req.Name))]
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "UNSUPPORTED_PLATFORM", "Platform not supported", nil)
		return
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) services() []ServiceInfo {
	types := h.Prices.Types()
	out := make([]ServiceInfo, 0, len(types))
	for _, st := range types {
		price, err := h.Prices.BasePrice(st)
		if err != nil {
			continue
		}
		out = append(out, ServiceInfo{
			ServiceType: st,
			Label:       label(st),
			PriceMinor:  price,
			Price:       decimal.New(price, -2).StringFixed(2),
		})
	}
	return out
}

func label(st pricing.ServiceType) string {
	words := strings.Split(string(st), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

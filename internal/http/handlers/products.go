package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/LucianBellevue/ba-website/internal/core"
	"github.com/LucianBellevue/ba-website/pkg/problem"
)

type ProductHandler struct {
	Estimator *core.Estimator
	Log       *slog.Logger
}

func NewProductHandler(e *core.Estimator, log *slog.Logger) *ProductHandler {
	return &ProductHandler{Estimator: e, Log: log}
}

func (h *ProductHandler) Mount(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{product}", h.Get)
	})
}

// ProductView is a catalog entry. With an age it also carries that age's
// coverage cap and the options under it.
type ProductView struct {
	core.Product
	Age                int             `json:"age,omitempty"`
	MaxCoverage        int64           `json:"maxCoverage,omitempty"`
	AvailableCoverages []core.Coverage `json:"availableCoverages,omitempty"`
}

// List returns the catalog.
//
//	@Summary	List products
//	@Tags		products
//	@Produce	json
//	@Success	200	{array}	ProductView
//	@Router		/api/products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := core.Products()
	out := make([]ProductView, len(products))
	for i, p := range products {
		out[i] = ProductView{Product: p}
	}
	writeJSON(w, h.Log, http.StatusOK, out)
}

// Get returns one product by type or slug; ?age=N adds the age's cap.
// 200: JSON; 400: bad age; 404: unknown product.
//
//	@Summary	Get a product
//	@Tags		products
//	@Produce	json
//	@Param		product	path		string	true	"type or slug"
//	@Param		age		query		int		false	"applicant age"
//	@Success	200		{object}	ProductView
//	@Failure	400		{object}	problem.Problem
//	@Failure	404		{object}	problem.Problem
//	@Router		/api/products/{product} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := core.ProductFor(chi.URLParam(r, "product"))
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Unknown product.")
		return
	}
	view := ProductView{Product: p}

	if raw := r.URL.Query().Get("age"); raw != "" {
		age, err := strconv.Atoi(raw)
		if err != nil || age < p.MinAge || age > p.MaxAge {
			problem.WriteFields(w, "Age is outside the product's range.", map[string]string{
				"age": "age must be between " + strconv.Itoa(p.MinAge) + " and " + strconv.Itoa(p.MaxAge),
			})
			return
		}
		limits, err := h.Estimator.Limits(p.Type)
		if err != nil {
			writeError(r.Context(), h.Log, w, err, "")
			return
		}
		view.Age = age
		view.MaxCoverage = limits.MaxCoverageForAge(age)
		view.AvailableCoverages = p.AvailableCoverages(age, limits)
	}
	writeJSON(w, h.Log, http.StatusOK, view)
}

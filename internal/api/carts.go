package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"stockdesk/m/domain"
	"stockdesk/m/internal/checkout"
	"stockdesk/m/internal/inventory"
	"stockdesk/m/internal/remote"
	"stockdesk/m/internal/validate"
)

type cartRequest struct {
	Kind       string `json:"kind"`
	SupplierID string `json:"supplier_id"`
}

// cartView is a cart with its running totals.
type cartView struct {
	domain.Cart
	Totals checkout.Totals `json:"totals"`
}

func viewCart(c domain.Cart) cartView {
	if c.Lines == nil {
		c.Lines = []domain.CartLine{}
	}
	return cartView{Cart: c, Totals: checkout.Compute(c.Lines)}
}

func (h *Handler) createCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Kind == "" {
		req.Kind = domain.CartSale
	}
	switch req.Kind {
	case domain.CartSale:
		req.SupplierID = ""
	case domain.CartGRN:
		if strings.TrimSpace(req.SupplierID) == "" {
			respondError(w, http.StatusBadRequest, "supplier_id is required")
			return
		}
		if _, err := h.remoteFor(r).GetSupplier(r.Context(), req.SupplierID); err != nil {
			h.fail(w, r, err)
			return
		}
	default:
		respondError(w, http.StatusBadRequest, "kind must be one of: sale grn")
		return
	}

	cart, err := h.store.CreateCart(r.Context(), sessionFrom(r).ID, req.Kind, req.SupplierID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, viewCart(cart))
}

func (h *Handler) loadCart(r *http.Request) (domain.Cart, error) {
	return h.store.Cart(r.Context(), sessionFrom(r).ID, chi.URLParam(r, "id"))
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, viewCart(cart))
}

func (h *Handler) cancelCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.DeleteCart(r.Context(), cart.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// lineRequest sets one cart line. Sale lines take price and name from the
// product; GRN lines carry what was received from the supplier.
type lineRequest struct {
	Quantity  int64    `json:"quantity"`
	Discount  float64  `json:"discount"`
	Name      string   `json:"name"`
	Category  string   `json:"category"`
	UnitPrice *float64 `json:"unit_price"`
	SellPrice *float64 `json:"sell_price"`
}

func (h *Handler) putCartLine(w http.ResponseWriter, r *http.Request) {
	var req lineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	if stocked(cart, code) {
		respondError(w, http.StatusConflict, "line already booked into stock")
		return
	}

	var line domain.CartLine
	switch cart.Kind {
	case domain.CartSale:
		line, err = h.saleLine(r, code, req)
	default:
		line, err = h.grnLine(r, code, req)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	line.CartID = cart.ID
	if err := h.store.PutLine(r.Context(), line); err != nil {
		h.fail(w, r, err)
		return
	}

	cart, err = h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, viewCart(cart))
}

func (h *Handler) saleLine(r *http.Request, code string, req lineRequest) (domain.CartLine, error) {
	p, err := h.remoteFor(r).GetProduct(r.Context(), code)
	if err != nil {
		return domain.CartLine{}, err
	}
	line := domain.CartLine{
		ProductCode: p.Code,
		Name:        p.Name,
		Category:    p.Category,
		UnitPrice:   p.SellingPrice,
		Quantity:    req.Quantity,
		Discount:    req.Discount,
	}
	return line, checkout.CheckLine(line, p.Stock)
}

// grnLine fills blanks from the existing product when the code is known.
func (h *Handler) grnLine(r *http.Request, code string, req lineRequest) (domain.CartLine, error) {
	line := domain.CartLine{
		ProductCode: code,
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Quantity:    req.Quantity,
	}
	p, err := h.remoteFor(r).GetProduct(r.Context(), code)
	switch {
	case errors.Is(err, remote.ErrNotFound):
	case err != nil:
		return domain.CartLine{}, err
	default:
		if line.Name == "" {
			line.Name = p.Name
		}
		if line.Category == "" {
			line.Category = p.Category
		}
		line.UnitPrice = p.BuyingPrice
		line.SellPrice = p.SellingPrice
	}
	if req.UnitPrice != nil {
		line.UnitPrice = *req.UnitPrice
	}
	if req.SellPrice != nil {
		line.SellPrice = *req.SellPrice
	}

	if err := validate.Var("code", line.ProductCode, "required,max=64"); err != nil {
		return domain.CartLine{}, err
	}
	if err := validate.Var("name", line.Name, "required"); err != nil {
		return domain.CartLine{}, err
	}
	if err := validate.Var("quantity", line.Quantity, "gt=0"); err != nil {
		return domain.CartLine{}, err
	}
	if err := validate.Var("unit_price", line.UnitPrice, "gte=0"); err != nil {
		return domain.CartLine{}, err
	}
	if err := validate.Var("sell_price", line.SellPrice, "gte=0"); err != nil {
		return domain.CartLine{}, err
	}
	return line, nil
}

func (h *Handler) removeCartLine(w http.ResponseWriter, r *http.Request) {
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if stocked(cart, chi.URLParam(r, "code")) {
		respondError(w, http.StatusConflict, "line already booked into stock")
		return
	}
	if err := h.store.RemoveLine(r.Context(), cart.ID, chi.URLParam(r, "code")); err != nil {
		h.fail(w, r, err)
		return
	}
	cart, err = h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, viewCart(cart))
}

type checkoutRequest struct {
	Tendered float64 `json:"tendered"`
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cart.Kind != domain.CartSale {
		respondError(w, http.StatusBadRequest, "cart is not a sale cart")
		return
	}
	if len(cart.Lines) == 0 {
		respondError(w, http.StatusBadRequest, "no items in cart")
		return
	}
	if err := validate.Var("tendered", req.Tendered, "gte=0"); err != nil {
		h.fail(w, r, err)
		return
	}
	shop, err := h.store.Settings(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	session := h.remoteFor(r)
	register := checkout.NewRegister(session, inventory.New(session))
	sale, err := register.Confirm(r.Context(), cart, req.Tendered, sessionFrom(r).Username, shop)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.discardCart(r, cart.ID)
	for _, se := range sale.StockErrors {
		h.logger.Warn("stock not updated after sale",
			zap.String("invoice", sale.Payment.InvoiceNo),
			zap.String("product", se.ProductCode),
			zap.Int64("quantity", se.Quantity),
			zap.String("error", se.Message))
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) receive(w http.ResponseWriter, r *http.Request) {
	cart, err := h.loadCart(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if cart.Kind != domain.CartGRN {
		respondError(w, http.StatusBadRequest, "cart is not a goods-received cart")
		return
	}
	if len(cart.Lines) == 0 {
		respondError(w, http.StatusBadRequest, "no items in cart")
		return
	}
	received, err := h.catalogFor(r).ReceiveGoods(r.Context(), cart, sessionFrom(r).Username, h.store)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.discardCart(r, cart.ID)
	respondJSON(w, http.StatusCreated, received)
}

// stocked reports whether a partly booked GRN cart already restocked code.
func stocked(cart domain.Cart, code string) bool {
	for _, l := range cart.Lines {
		if l.ProductCode == code {
			return l.Stocked
		}
	}
	return false
}

// discardCart drops a cart once the backend has accepted it. A failure
// here only leaves a stale cart for the housekeeping job.
func (h *Handler) discardCart(r *http.Request, id string) {
	if err := h.store.DeleteCart(r.Context(), id); err != nil {
		h.logger.Warn("unable to discard cart", zap.String("cart", id), zap.Error(err))
	}
}

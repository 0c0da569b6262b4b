package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jejupass/tour-passport-api/internal/domain"
	"github.com/jejupass/tour-passport-api/internal/usecase"
)

type Handler struct {
	badges   *usecase.BadgeService
	partners *usecase.PartnerService
	coupons  *usecase.CouponService
	users    *usecase.UserService
	auth     *Authenticator
}

func NewHandler(
	badges *usecase.BadgeService,
	partners *usecase.PartnerService,
	coupons *usecase.CouponService,
	users *usecase.UserService,
	auth *Authenticator,
) *Handler {
	return &Handler{
		badges:   badges,
		partners: partners,
		coupons:  coupons,
		users:    users,
		auth:     auth,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/badge", h.ListBadges)
		r.Get("/partner", h.ListPartners)

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware)

			r.Get("/badge/my", h.MyBadges)
			r.Post("/badge/issue", h.IssueBadge)

			r.Post("/partner", h.CreatePartner)
			r.Patch("/partner/{id}", h.UpdatePartner)
			r.Delete("/partner/{id}", h.DeletePartner)
			r.Get("/partner/eligible/{userId}", h.EligiblePartners)

			r.Post("/partner/coupon/generate", h.GenerateCoupon)
			r.Post("/partner/coupon/use", h.RedeemCoupon)
			r.Get("/partner/coupons/my", h.MyCoupons)

			r.Put("/user/wallet", h.LinkWallet)
		})
	})
}

// ── request/response shapes ──────────────────────────────────────────────────

type positionPayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type issueBadgeRequest struct {
	BadgeID    string           `json:"badgeId"`
	Position   *positionPayload `json:"position,omitempty"`
	ProofToken string           `json:"proofToken,omitempty"`
}

type badgeLocationResponse struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radiusMeters"`
}

// badgeResponse deliberately omits the proof token; the expected token never
// leaves the server.
type badgeResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Rarity      string                 `json:"rarity"`
	ImageURL    string                 `json:"image,omitempty"`
	Location    *badgeLocationResponse `json:"location,omitempty"`
}

type grantResponse struct {
	UserID   string    `json:"userId"`
	BadgeID  string    `json:"badgeId"`
	IssuedAt time.Time `json:"issuedAt"`
}

type passportResponse struct {
	Badges []badgeResponse `json:"badges"`
	Count  int             `json:"count"`
	Tier   domain.Tier     `json:"tier"`
}

type createPartnerRequest struct {
	Name          string `json:"name"`
	Category      string `json:"category"`
	Contact       string `json:"contact"`
	DiscountRate  int    `json:"discountRate"`
	MinimumBadges int    `json:"minimumBadges"`
}

type patchPartnerRequest struct {
	Name          *string `json:"name"`
	Category      *string `json:"category"`
	Contact       *string `json:"contact"`
	DiscountRate  *int    `json:"discountRate"`
	MinimumBadges *int    `json:"minimumBadges"`
}

type partnerResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Contact       string    `json:"contact"`
	DiscountRate  int       `json:"discountRate"`
	MinimumBadges int       `json:"minimumBadges"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type eligiblePartnerResponse struct {
	Partner           partnerResponse `json:"partner"`
	AvailableDiscount int             `json:"availableDiscount"`
}

type eligibleResponse struct {
	Partners []eligiblePartnerResponse `json:"partners"`
	Tier     domain.Tier               `json:"tier"`
}

type generateCouponRequest struct {
	PartnerID string `json:"partnerId"`
}

type redeemCouponRequest struct {
	CouponCode     string `json:"couponCode"`
	PurchaseAmount int    `json:"purchaseAmount"`
}

type couponResponse struct {
	Code         string     `json:"code"`
	PartnerID    string     `json:"partnerId"`
	DiscountRate int        `json:"discountRate"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	ValidUntil   time.Time  `json:"validUntil"`
	UsedAt       *time.Time `json:"usedAt,omitempty"`
}

type redemptionResponse struct {
	Coupon         couponResponse `json:"coupon"`
	OriginalAmount int            `json:"originalAmount"`
	DiscountAmount int            `json:"discountAmount"`
	FinalAmount    int            `json:"finalAmount"`
}

type linkWalletRequest struct {
	WalletAddress string `json:"walletAddress"`
}

type userResponse struct {
	ID            string `json:"id"`
	WalletAddress string `json:"walletAddress"`
}

// ── badge handlers ───────────────────────────────────────────────────────────

func (h *Handler) ListBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := h.badges.ListCatalog(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBadgeResponses(badges))
}

func (h *Handler) MyBadges(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	badges, tier, err := h.badges.Passport(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, passportResponse{
		Badges: toBadgeResponses(badges),
		Count:  len(badges),
		Tier:   tier,
	})
}

func (h *Handler) IssueBadge(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	var req issueBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	badgeID, err := uuid.Parse(req.BadgeID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid badge id")
		return
	}

	issueReq := usecase.IssueRequest{BadgeID: badgeID, ProofToken: req.ProofToken}
	if req.Position != nil {
		issueReq.Position = &domain.Coordinate{Lat: req.Position.Lat, Lng: req.Position.Lng}
	}

	grant, err := h.badges.Issue(r.Context(), userID, issueReq)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, grantResponse{
		UserID:   grant.UserID,
		BadgeID:  grant.BadgeID.String(),
		IssuedAt: grant.IssuedAt,
	})
}

// ── partner handlers ─────────────────────────────────────────────────────────

func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := h.partners.List(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponses(partners))
}

func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req createPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	partner, err := h.partners.Create(r.Context(), usecase.PartnerInput{
		Name:          req.Name,
		Category:      req.Category,
		Contact:       req.Contact,
		DiscountRate:  req.DiscountRate,
		MinimumBadges: req.MinimumBadges,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toPartnerResponse(partner))
}

func (h *Handler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	var req patchPartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	partner, err := h.partners.Update(r.Context(), id, domain.PartnerPatch{
		Name:          req.Name,
		Category:      req.Category,
		Contact:       req.Contact,
		DiscountRate:  req.DiscountRate,
		MinimumBadges: req.MinimumBadges,
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toPartnerResponse(partner))
}

func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	if err := h.partners.Delete(r.Context(), id); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) EligiblePartners(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}
	// Eligibility is resolved for the caller; the path id must match so one
	// user cannot probe another's standing.
	if pathID := chi.URLParam(r, "userId"); pathID != userID {
		respondError(w, http.StatusNotFound, "unknown user")
		return
	}

	eligible, tier, err := h.partners.EligibleFor(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}

	items := make([]eligiblePartnerResponse, 0, len(eligible))
	for _, e := range eligible {
		items = append(items, eligiblePartnerResponse{
			Partner:           toPartnerResponse(e.Partner),
			AvailableDiscount: e.AvailableDiscount,
		})
	}
	respondJSON(w, http.StatusOK, eligibleResponse{Partners: items, Tier: tier})
}

// ── coupon handlers ──────────────────────────────────────────────────────────

func (h *Handler) GenerateCoupon(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	var req generateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	partnerID, err := uuid.Parse(req.PartnerID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid partner id")
		return
	}

	coupon, err := h.coupons.Generate(r.Context(), userID, partnerID)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCouponResponse(coupon))
}

func (h *Handler) RedeemCoupon(w http.ResponseWriter, r *http.Request) {
	if _, err := userIDFrom(r.Context()); err != nil {
		respondErr(w, err)
		return
	}

	var req redeemCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CouponCode == "" {
		respondError(w, http.StatusBadRequest, "coupon code is required")
		return
	}

	redemption, err := h.coupons.Redeem(r.Context(), req.CouponCode, req.PurchaseAmount)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, redemptionResponse{
		Coupon:         toCouponResponse(redemption.Coupon),
		OriginalAmount: redemption.OriginalAmount,
		DiscountAmount: redemption.DiscountAmount,
		FinalAmount:    redemption.FinalAmount,
	})
}

func (h *Handler) MyCoupons(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	coupons, err := h.coupons.ListMine(r.Context(), userID)
	if err != nil {
		respondErr(w, err)
		return
	}

	items := make([]couponResponse, 0, len(coupons))
	for _, c := range coupons {
		items = append(items, toCouponResponse(c))
	}
	respondJSON(w, http.StatusOK, items)
}

// ── user handlers ────────────────────────────────────────────────────────────

func (h *Handler) LinkWallet(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFrom(r.Context())
	if err != nil {
		respondErr(w, err)
		return
	}

	var req linkWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.users.LinkWallet(r.Context(), userID, req.WalletAddress)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, userResponse{
		ID:            user.ID,
		WalletAddress: user.WalletAddress,
	})
}

// ── helpers ──────────────────────────────────────────────────────────────────

func toBadgeResponses(badges []domain.Badge) []badgeResponse {
	out := make([]badgeResponse, 0, len(badges))
	for _, b := range badges {
		resp := badgeResponse{
			ID:          b.ID.String(),
			Name:        b.Name,
			Description: b.Description,
			Rarity:      string(b.Rarity),
			ImageURL:    b.ImageURL,
		}
		if b.Location != nil {
			resp.Location = &badgeLocationResponse{
				Lat:          b.Location.Coordinate.Lat,
				Lng:          b.Location.Coordinate.Lng,
				RadiusMeters: b.Location.RadiusMeters,
			}
		}
		out = append(out, resp)
	}
	return out
}

func toPartnerResponse(p domain.Partner) partnerResponse {
	return partnerResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		Category:      p.Category,
		Contact:       p.Contact,
		DiscountRate:  p.DiscountRate,
		MinimumBadges: p.MinimumBadges,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPartnerResponses(partners []domain.Partner) []partnerResponse {
	out := make([]partnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, toPartnerResponse(p))
	}
	return out
}

func toCouponResponse(c domain.Coupon) couponResponse {
	return couponResponse{
		Code:         c.Code,
		PartnerID:    c.PartnerID.String(),
		DiscountRate: c.DiscountRate,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		ValidUntil:   c.ValidUntil,
		UsedAt:       c.UsedAt,
	}
}

type errorResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Message: message})
}

// respondErr maps domain errors onto the HTTP status taxonomy: 400 for
// validation and recoverable precondition failures, 401 auth, 404 not-found,
// 409 for the already-used conflict. Anything unmapped is an internal
// storage failure and stays opaque.
func respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		respondError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, domain.ErrAlreadyUsedCoupon):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrGeofenceViolation),
		errors.Is(err, domain.ErrQRMismatch),
		errors.Is(err, domain.ErrExpiredCoupon),
		errors.Is(err, domain.ErrIneligiblePartner):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

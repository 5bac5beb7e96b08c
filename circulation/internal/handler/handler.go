package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	md "github.com/Astemirdum/library-circulation/pkg/middleware"
	"github.com/Astemirdum/library-circulation/pkg/validate"
	_ "github.com/Astemirdum/library-circulation/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	circulationSvc CirculationService
	log            *zap.Logger
}

func New(circulationSvc CirculationService, log *zap.Logger) *Handler {
	return &Handler{
		circulationSvc: circulationSvc,
		log:            log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books/:bookId", h.GetBook)
	api.GET("/books/:bookId/holds", h.ListHolds)
	api.POST("/books/:bookId/holds/promote", h.PromoteNext)

	api.GET("/transactions/:id", h.GetTransaction)
	api.POST("/transactions/:id/approve", h.Approve)
	api.POST("/transactions/:id/reject", h.Reject)
	api.POST("/transactions/:id/return/complete", h.CompleteReturn)

	api.POST("/holds/:holdId/cancel", h.CancelHold)

	api.POST("/sweeps/overdue", h.OverdueSweep)
	api.POST("/sweeps/holds", h.ExpireSweep)

	user := api.Group("", md.UserContext)
	user.POST("/transactions", h.CreateTransaction)
	user.GET("/transactions", h.ListTransactions)
	user.POST("/transactions/:id/cancel", h.Cancel)
	user.POST("/transactions/:id/return", h.RequestReturn)
	user.POST("/holds", h.PlaceHold)

	return e
}

// httpError maps engine errors to the response code and the message shown to users.
func (h *Handler) httpError(err error) error {
	code := errs.HTTPStatus(err)
	if code >= http.StatusInternalServerError {
		h.log.Error("internal", zap.Error(err))
	}
	return echo.NewHTTPError(code, errs.Message(err))
}

func userName(c echo.Context) string {
	name, _ := md.UserName(c.Request().Context())
	return name
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// GetBook
// @Summary Book availability
// @Tags books
// @Produce json
// @Param bookId path string true "book id"
// @Success 200 {object} model.Book
// @Failure 404 {object} echo.HTTPError
// @Router /books/{bookId} [get]
func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.circulationSvc.GetBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

// CreateTransaction
// @Summary Request to borrow or reserve a book
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-User-Name header string true "user"
// @Param request body model.CreateTransactionRequest true "request"
// @Success 201 {object} model.Transaction
// @Failure 400,404,409,410,422 {object} echo.HTTPError
// @Router /transactions [post]
func (h *Handler) CreateTransaction(c echo.Context) error {
	var req model.CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ctx := c.Request().Context()

	var (
		t   model.Transaction
		err error
	)
	switch req.Type {
	case model.TypeReserve:
		t, err = h.circulationSvc.RequestReserve(ctx, req.BookID, userName(c))
	default:
		t, err = h.circulationSvc.RequestBorrow(ctx, req.BookID, userName(c))
	}
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, t)
}

// ListTransactions
// @Summary Requests and loans of the calling user
// @Tags transactions
// @Produce json
// @Param X-User-Name header string true "user"
// @Success 200 {object} model.TransactionList
// @Router /transactions [get]
func (h *Handler) ListTransactions(c echo.Context) error {
	items, err := h.circulationSvc.ListTransactions(c.Request().Context(), userName(c))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.TransactionList{Items: items})
}

func (h *Handler) GetTransaction(c echo.Context) error {
	t, err := h.circulationSvc.GetTransaction(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// Approve
// @Summary Approve a pending request and lend a copy
// @Tags transactions
// @Produce json
// @Param id path string true "transaction id"
// @Success 200 {object} model.Transaction
// @Failure 404,409,422 {object} echo.HTTPError
// @Router /transactions/{id}/approve [post]
func (h *Handler) Approve(c echo.Context) error {
	t, err := h.circulationSvc.Approve(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Reject(c echo.Context) error {
	t, err := h.circulationSvc.Reject(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *Handler) Cancel(c echo.Context) error {
	t, err := h.circulationSvc.Cancel(c.Request().Context(), c.Param("id"), userName(c))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// RequestReturn
// @Summary Hand a borrowed copy back
// @Tags transactions
// @Accept json
// @Produce json
// @Param X-User-Name header string true "user"
// @Param id path string true "transaction id"
// @Param request body model.ReturnRequest false "condition of the copy"
// @Success 200 {object} model.Transaction
// @Router /transactions/{id}/return [post]
func (h *Handler) RequestReturn(c echo.Context) error {
	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := h.circulationSvc.RequestReturn(c.Request().Context(), c.Param("id"), userName(c), req.Condition)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, t)
}

// CompleteReturn
// @Summary Confirm a return; the copy goes to the hold queue first
// @Tags transactions
// @Produce json
// @Param id path string true "transaction id"
// @Success 200 {object} model.ReturnResult
// @Router /transactions/{id}/return/complete [post]
func (h *Handler) CompleteReturn(c echo.Context) error {
	res, err := h.circulationSvc.CompleteReturn(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

// PlaceHold
// @Summary Join the waiting queue of a title
// @Tags holds
// @Accept json
// @Produce json
// @Param X-User-Name header string true "user"
// @Param request body model.PlaceHoldRequest true "request"
// @Success 201 {object} model.Hold
// @Failure 409 {object} echo.HTTPError
// @Router /holds [post]
func (h *Handler) PlaceHold(c echo.Context) error {
	var req model.PlaceHoldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hold, err := h.circulationSvc.PlaceHold(c.Request().Context(), req.BookID, userName(c))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusCreated, hold)
}

func (h *Handler) CancelHold(c echo.Context) error {
	var req model.CancelHoldRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hold, err := h.circulationSvc.CancelHold(c.Request().Context(), c.Param("holdId"), req.Reason)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, hold)
}

func (h *Handler) ListHolds(c echo.Context) error {
	items, err := h.circulationSvc.ListHolds(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.HoldList{Items: items})
}

func (h *Handler) PromoteNext(c echo.Context) error {
	hold, err := h.circulationSvc.PromoteNext(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, model.PromoteResponse{Promoted: hold})
}

// OverdueSweep
// @Summary List overdue loans and remind borrowers
// @Tags sweeps
// @Accept json
// @Produce json
// @Param request body model.OverdueSweepHTTPRequest false "sweep options"
// @Success 200 {object} model.OverdueReport
// @Router /sweeps/overdue [post]
func (h *Handler) OverdueSweep(c echo.Context) error {
	var req model.OverdueSweepHTTPRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sweep := model.OverdueSweepRequest{
		MinimumDaysOverdue: req.MinimumDaysOverdue,
		DryRun:             req.DryRun,
		Force:              req.Force,
	}
	if req.Now != nil {
		sweep.Now = req.Now.UTC()
	}
	report, err := h.circulationSvc.OverdueSweep(c.Request().Context(), sweep)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) ExpireSweep(c echo.Context) error {
	var req model.ExpireSweepRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var now time.Time
	if req.Now != nil {
		now = req.Now.UTC()
	}
	res, err := h.circulationSvc.ExpireSweep(c.Request().Context(), now)
	if err != nil {
		return h.httpError(err)
	}
	return c.JSON(http.StatusOK, res)
}

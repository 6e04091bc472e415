package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"cputable/internal/engine"
	"cputable/internal/models"
	"cputable/internal/render"
)

// Handler serves the table over HTTP. Requests are stateless: each one
// carries its filter and sort state and shares only the immutable dataset.
type Handler struct {
	data atomic.Pointer[engine.Dataset]
	opts render.Options
}

// NewHandler returns a handler. A nil dataset makes every route answer 503
// until SetData is called.
func NewHandler(data *engine.Dataset, opts render.Options) *Handler {
	h := &Handler{opts: opts}
	if data != nil {
		h.data.Store(data)
	}
	return h
}

// SetData publishes a freshly loaded dataset.
func (h *Handler) SetData(data *engine.Dataset) {
	h.data.Store(data)
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.GetPage)

	api := e.Group("/api")
	api.GET("/view", h.GetView)
	api.POST("/view", h.PostView)
	api.GET("/options", h.GetOptions)
}

// --- HANDLERS ---

func (h *Handler) dataset() (*engine.Dataset, error) {
	ds := h.data.Load()
	if ds == nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is still loading")
	}
	return ds, nil
}

// modelFromQuery rebuilds a view model from the request's query string.
func (h *Handler) modelFromQuery(c echo.Context) (*engine.ViewModel, error) {
	ds, err := h.dataset()
	if err != nil {
		return nil, err
	}
	f, s, err := render.ParseQuery(c.QueryParams())
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m := engine.FromDataset(ds)
	if err := m.Restore(f, s); err != nil {
		return nil, badRequest(err)
	}
	return m, nil
}

func (h *Handler) GetPage(c echo.Context) error {
	m, err := h.modelFromQuery(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.WritePage(&buf, render.NewPageData(m, h.opts)); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

func (h *Handler) GetView(c echo.Context) error {
	m, err := h.modelFromQuery(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, render.Response(m, h.opts))
}

// PostView applies a batch of commands to the posted state and returns the
// resulting view.
func (h *Handler) PostView(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}

	var req models.ViewRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	f, s, err := render.ParseState(req.State)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cmds, err := ParseCommands(req.Commands)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	m := engine.FromDataset(ds)
	if err := m.Restore(f, s); err != nil {
		return badRequest(err)
	}
	for _, cmd := range cmds {
		c.Logger().Debugf("apply %T %+v", cmd, cmd)
	}
	if err := m.DispatchAll(cmds...); err != nil {
		return badRequest(err)
	}
	return c.JSON(http.StatusOK, render.Response(m, h.opts))
}

func (h *Handler) GetOptions(c echo.Context) error {
	ds, err := h.dataset()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, render.FilterOptions(ds.Facets, h.opts))
}

func badRequest(err error) error {
	if errors.Is(err, engine.ErrUnknownColumn) || errors.Is(err, engine.ErrUnknownFilter) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// ParseCommands converts wire commands into engine commands.
func ParseCommands(in []models.Command) ([]engine.Command, error) {
	out := make([]engine.Command, 0, len(in))
	for i, c := range in {
		switch c.Type {
		case "set_search":
			out = append(out, engine.SetSearch{Text: c.Value})
		case "set_filter":
			field, err := engine.ParseFilterField(c.Field)
			if err != nil {
				return nil, fmt.Errorf("command %d: %w", i, err)
			}
			out = append(out, engine.SetFilter{Field: field, Value: c.Value})
		case "toggle_sort":
			if c.Column == "" {
				return nil, fmt.Errorf("command %d: toggle_sort needs a column", i)
			}
			out = append(out, engine.ToggleSort{Column: c.Column})
		case "reset":
			out = append(out, engine.Reset{})
		default:
			return nil, fmt.Errorf("command %d: unknown type %q", i, c.Type)
		}
	}
	return out, nil
}

// Package mcp exposes the weather rules and dashboard as Model Context Protocol
// tools so assistants can call them directly.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/miyamo2/qilin"
	"github.com/miyamo2/qilin/transport"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/domain/forecast"
	apperrors "github.com/yanqian/taapman/pkg/errors"
)

const (
	serverName    = "taapman-weather"
	serverVersion = "0.1.0"
	dashboardURI  = "weather://dashboard/{city}"
)

var validate = validator.New()

// Server registers tools and resources backed by the dashboard service.
type Server struct {
	svc    dashboard.Service
	logger *slog.Logger
}

// NewServer constructs the MCP adapter.
func NewServer(svc dashboard.Service, logger *slog.Logger) *Server {
	return &Server{svc: svc, logger: logger.With("component", "mcp.server")}
}

type classifyArgs struct {
	Code int `json:"code" jsonschema:"description=WMO weather interpretation code"`
}

type conditionsArgs struct {
	Temperature  float64 `json:"temperature" jsonschema:"description=Air temperature in degrees Celsius"`
	Condition    string  `json:"condition" validate:"required" jsonschema:"enum=Clear,enum=Cloudy,enum=Rainy,enum=Snowy"`
	WindSpeedKmh float64 `json:"wind_speed_kmh" validate:"gte=0" jsonschema:"description=Wind speed in km/h"`
	Humidity     float64 `json:"humidity" validate:"gte=0,lte=100" jsonschema:"description=Relative humidity percentage"`
	IsDay        bool    `json:"is_day" jsonschema:"description=Whether the sun is up"`
}

type cityArgs struct {
	City string `json:"city" validate:"required,max=120" jsonschema:"description=City name, e.g. London"`
}

type classification struct {
	Code      int               `json:"code"`
	Condition forecast.Category `json:"condition"`
	Icon      string            `json:"icon"`
}

// Register adds every tool and resource to q.
func (s *Server) Register(q *qilin.Qilin) {
	q.Tool("classify_weather_code", (*classifyArgs)(nil), s.classifyWeatherCode,
		qilin.ToolWithDescription("Map a WMO weather code to Clear, Cloudy, Rainy or Snowy"))
	q.Tool("suggest_outfit", (*conditionsArgs)(nil), s.suggestOutfit,
		qilin.ToolWithDescription("Recommend clothing for the given conditions"))
	q.Tool("score_activities", (*conditionsArgs)(nil), s.scoreActivities,
		qilin.ToolWithDescription("Score running, cycling, camping and stargazing from 0 to 100"))
	q.Tool("city_dashboard", (*cityArgs)(nil), s.cityDashboard,
		qilin.ToolWithDescription("Fetch current weather, a 5-day outlook and advice for a city"))

	q.Resource("City Weather Dashboard", dashboardURI, s.dashboardResource,
		qilin.ResourceWithDescription("Current conditions, outlook and advice for a city"),
		qilin.ResourceWithMimeType("application/json"))
}

// Run serves over stdio, or streamable HTTP when listen is set, until ctx ends.
func (s *Server) Run(ctx context.Context, listen string) error {
	q := qilin.New(serverName, qilin.WithVersion(serverVersion))
	s.Register(q)

	opts := []qilin.StartOption{qilin.StartWithContext(ctx)}
	if listen = strings.TrimSpace(listen); listen != "" {
		l, err := net.Listen("tcp", listen)
		if err != nil {
			return fmt.Errorf("listen %s: %w", listen, err)
		}
		s.logger.Info("mcp streamable transport listening", "address", l.Addr().String())
		opts = append(opts, qilin.StartWithListener(transport.NewStreamable(transport.StreamableWithNetListener(l))))
	} else {
		s.logger.Info("mcp stdio transport ready")
	}
	return q.Start(opts...)
}

func (s *Server) classifyWeatherCode(c qilin.ToolContext) error {
	var args classifyArgs
	if err := c.Bind(&args); err != nil {
		return err
	}
	return c.JSON(classify(args.Code))
}

func (s *Server) suggestOutfit(c qilin.ToolContext) error {
	req, err := bindConditions(c)
	if err != nil {
		return err
	}
	return c.JSON(s.svc.Advise(req).Outfit)
}

func (s *Server) scoreActivities(c qilin.ToolContext) error {
	req, err := bindConditions(c)
	if err != nil {
		return err
	}
	return c.JSON(s.svc.Advise(req).Activities)
}

func (s *Server) cityDashboard(c qilin.ToolContext) error {
	var args cityArgs
	if err := c.Bind(&args); err != nil {
		return err
	}
	if err := validate.Struct(args); err != nil {
		return err
	}
	resp, err := s.lookup(c.Context(), args.City)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (s *Server) dashboardResource(c qilin.ResourceContext) error {
	city := cityFromParam(c.Param("city"))
	resp, err := s.lookup(c.Context(), city)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// lookup hides internal causes behind the user-facing message.
func (s *Server) lookup(ctx context.Context, city string) (dashboard.Response, error) {
	resp, err := s.svc.ByCity(ctx, dashboard.CityRequest{City: city})
	if err != nil {
		s.logger.Warn("dashboard lookup failed", "city", city, "code", apperrors.CodeOf(err), "error", err)
		return dashboard.Response{}, errors.New(apperrors.MessageOf(err))
	}
	return resp, nil
}

func bindConditions(c qilin.BindableContext) (dashboard.AdviceRequest, error) {
	var args conditionsArgs
	if err := c.Bind(&args); err != nil {
		return dashboard.AdviceRequest{}, err
	}
	return args.toRequest()
}

func (a conditionsArgs) toRequest() (dashboard.AdviceRequest, error) {
	if err := validate.Struct(a); err != nil {
		return dashboard.AdviceRequest{}, err
	}
	category, ok := forecast.ParseCategory(a.Condition)
	if !ok {
		return dashboard.AdviceRequest{}, fmt.Errorf("unknown condition %q", a.Condition)
	}
	return dashboard.AdviceRequest{
		Temperature:  a.Temperature,
		Condition:    category,
		WindSpeedKmh: a.WindSpeedKmh,
		Humidity:     a.Humidity,
		IsDay:        a.IsDay,
	}, nil
}

func classify(code int) classification {
	category := forecast.Classify(code)
	return classification{Code: code, Condition: category, Icon: category.Icon()}
}

// cityFromParam turns "new_york" back into "new york".
func cityFromParam(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, "_", " "))
}

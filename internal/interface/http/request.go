package http

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/domain/forecast"
)

var validate = validator.New()

type cityQuery struct {
	City string `validate:"max=120"`
}

type coordinatesQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

type limitQuery struct {
	Limit int `validate:"gte=0,lte=100"`
}

type adviceBody struct {
	Temperature  *float64 `json:"temperature" validate:"required"`
	Condition    string   `json:"condition" validate:"required"`
	WindSpeedKmh float64  `json:"windSpeedKmh" validate:"gte=0"`
	Humidity     float64  `json:"humidity" validate:"gte=0,lte=100"`
	IsDay        bool     `json:"isDay"`
}

func parseCityQuery(c *gin.Context) (dashboard.CityRequest, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return dashboard.CityRequest{}, err
	}
	return dashboard.CityRequest{City: q.City}, nil
}

func parseCoordinatesQuery(c *gin.Context) (dashboard.CoordinatesRequest, error) {
	latRaw, lonRaw := strings.TrimSpace(c.Query("lat")), strings.TrimSpace(c.Query("lon"))
	if latRaw == "" || lonRaw == "" {
		return dashboard.CoordinatesRequest{}, fmt.Errorf("lat and lon query parameters are required")
	}
	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil {
		return dashboard.CoordinatesRequest{}, fmt.Errorf("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonRaw, 64)
	if err != nil {
		return dashboard.CoordinatesRequest{}, fmt.Errorf("lon must be a number")
	}

	q := coordinatesQuery{Latitude: lat, Longitude: lon}
	if err := validate.Struct(q); err != nil {
		return dashboard.CoordinatesRequest{}, err
	}
	return dashboard.CoordinatesRequest{Latitude: q.Latitude, Longitude: q.Longitude}, nil
}

func parseLimitQuery(c *gin.Context) (int, error) {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer")
	}
	if err := validate.Struct(limitQuery{Limit: limit}); err != nil {
		return 0, err
	}
	return limit, nil
}

func (b adviceBody) toRequest() (dashboard.AdviceRequest, error) {
	if err := validate.Struct(b); err != nil {
		return dashboard.AdviceRequest{}, err
	}
	category, ok := forecast.ParseCategory(b.Condition)
	if !ok {
		return dashboard.AdviceRequest{}, fmt.Errorf("condition must be one of Clear, Cloudy, Rainy, Snowy")
	}
	return dashboard.AdviceRequest{
		Temperature:  *b.Temperature,
		Condition:    category,
		WindSpeedKmh: b.WindSpeedKmh,
		Humidity:     b.Humidity,
		IsDay:        b.IsDay,
	}, nil
}

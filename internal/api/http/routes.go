package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farmsight/internal/farm"
	"github.com/i474232898/farmsight/internal/soil"
	"github.com/i474232898/farmsight/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, session *farm.Session) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		q := forecastQuery{Mode: strings.ToLower(c.Query("mode", string(weather.ModeAuto)))}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "mode must be one of auto, api, static")
		}
		mode, _ := weather.ParseMode(q.Mode)

		res, err := session.Refresh(c.UserContext(), mode)
		if errors.Is(err, farm.ErrRefreshInProgress) {
			if last, ok := session.LastForecast(); ok {
				return c.JSON(last)
			}
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve forecast")
		}
		return c.JSON(res)
	})

	v1.Get("/locations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"current":   session.Location(),
			"locations": farm.Locations(c.Query("q")),
		})
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		return c.JSON(session.Location())
	})

	v1.Put("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Key == "" && (req.Lat == nil || req.Lon == nil) {
			return fiber.NewError(fiber.StatusBadRequest, "either key or lat and lon are required")
		}

		var (
			loc farm.Location
			err error
		)
		if req.Key != "" {
			loc, err = session.SelectLocation(c.UserContext(), req.Key)
		} else {
			loc, err = session.SetCustomLocation(c.UserContext(), req.Name, *req.Lat, *req.Lon)
		}
		switch {
		case errors.Is(err, farm.ErrUnknownLocation):
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		case errors.Is(err, farm.ErrInvalidCoordinates):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err != nil:
			return fiber.NewError(fiber.StatusInternalServerError, "failed to change location")
		}
		return c.JSON(loc)
	})

	v1.Get("/soil/zones", func(c *fiber.Ctx) error {
		return c.JSON(session.Zones())
	})

	v1.Get("/soil/zones/:id", func(c *fiber.Ctx) error {
		zr, err := session.Zone(c.Params("id"))
		if err != nil {
			if errors.Is(err, farm.ErrZoneNotFound) {
				return fiber.NewError(fiber.StatusNotFound, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to evaluate zone")
		}
		return c.JSON(zr)
	})

	v1.Post("/soil/score", func(c *fiber.Ctx) error {
		var req scoreRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(soil.Evaluate(req.reading()))
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		return c.JSON(session.Alerts(time.Now().UTC()))
	})
}

type forecastQuery struct {
	Mode string `validate:"oneof=auto api static"`
}

// locationRequest selects a catalog entry by key, or a custom coordinate.
type locationRequest struct {
	Key  string   `json:"key"`
	Name string   `json:"name" validate:"max=100"`
	Lat  *float64 `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lon  *float64 `json:"lon" validate:"omitempty,gte=-180,lte=180"`
}

// scoreRequest requires every metric so a missing field is not scored as zero.
type scoreRequest struct {
	MoisturePercent *float64 `json:"moisture_percent" validate:"required"`
	PHLevel         *float64 `json:"ph_level" validate:"required"`
	NitrogenMgKg    *float64 `json:"nitrogen_mg_kg" validate:"required"`
	PhosphorusMgKg  *float64 `json:"phosphorus_mg_kg" validate:"required"`
	PotassiumMgKg   *float64 `json:"potassium_mg_kg" validate:"required"`
}

func (r scoreRequest) reading() soil.Reading {
	return soil.Reading{
		MoisturePercent: *r.MoisturePercent,
		PHLevel:         *r.PHLevel,
		NitrogenMgKg:    *r.NitrogenMgKg,
		PhosphorusMgKg:  *r.PhosphorusMgKg,
		PotassiumMgKg:   *r.PotassiumMgKg,
	}
}

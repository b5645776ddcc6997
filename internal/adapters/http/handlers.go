package http

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// GenerateRouteHandler turns a drawing into a route and returns it as JSON.
func GenerateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseGenerateRequest(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		route, err := deps.Routes.Generate(c.UserContext(), req)
		if err != nil {
			return errGeneration(c, err)
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(route)
	}
}

// GenerateGPXHandler runs the same pipeline and returns only the GPX document
// as a file download.
func GenerateGPXHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseGenerateRequest(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		route, err := deps.Routes.Generate(c.UserContext(), req)
		if err != nil {
			return errGeneration(c, err)
		}

		c.Set("Cache-Control", "no-store")
		c.Set(fiber.HeaderContentType, "application/gpx+xml; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+gpxFilename(req.Name)+`"`)
		c.Set("X-Generation-Method", string(route.Metadata.GenerationMethod))
		c.Set("X-Route-Distance", route.Distance)
		return c.SendString(route.GPXContent)
	}
}

// profileView is the public description of a travel profile.
type profileView struct {
	Name string `json:"name"`
	domain.ProfileSettings
}

// ListProfilesHandler returns every supported travel profile and its parameters.
func ListProfilesHandler() fiber.Handler {
	profiles := make([]profileView, 0, len(domain.Profiles))
	for _, p := range domain.Profiles {
		profiles = append(profiles, profileView{Name: string(p), ProfileSettings: p.Settings()})
	}

	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(fiber.Map{"data": profiles})
	}
}

func parseGenerateRequest(c *fiber.Ctx) (domain.GenerateRequest, error) {
	var req domain.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return req, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return req, nil
}

var unsafeFilename = regexp.MustCompile(`[^a-z0-9]+`)

func gpxFilename(name string) string {
	slug := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if slug == "" {
		slug = "route"
	}
	if len(slug) > 64 {
		slug = strings.TrimRight(slug[:64], "-")
	}
	return slug + ".gpx"
}

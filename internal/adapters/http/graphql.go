package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/sketchroute/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to the generation service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	profileType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Profile",
		Fields: graphql.Fields{
			"name":                    &graphql.Field{Type: graphql.String},
			"maxWaypoints":            &graphql.Field{Type: graphql.Int},
			"smoothingIterations":     &graphql.Field{Type: graphql.Int},
			"interpolationStepMeters": &graphql.Field{Type: graphql.Float},
			"variationScale":          &graphql.Field{Type: graphql.Float},
			"naturalDeviation":        &graphql.Field{Type: graphql.Boolean},
			"apiProfile":              &graphql.Field{Type: graphql.String},
			"avoidFeatures":           &graphql.Field{Type: graphql.NewList(graphql.String)},
		},
	})

	metadataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteMetadata",
		Fields: graphql.Fields{
			"originalPointsCount": &graphql.Field{Type: graphql.Int},
			"finalPointsCount":    &graphql.Field{Type: graphql.Int},
			"generationMethod":    &graphql.Field{Type: graphql.String},
			"processingTimeMs":    &graphql.Field{Type: graphql.Int},
			"profile":             &graphql.Field{Type: graphql.String},
			"attempts":            &graphql.Field{Type: graphql.Int},
			"cacheHit":            &graphql.Field{Type: graphql.Boolean},
			"startIndex":          &graphql.Field{Type: graphql.Int},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeneratedRoute",
		Fields: graphql.Fields{
			"success":     &graphql.Field{Type: graphql.Boolean},
			"coordinates": &graphql.Field{Type: graphql.NewList(coordinateType)},
			"gpxContent":  &graphql.Field{Type: graphql.String},
			"distance":    &graphql.Field{Type: graphql.String},
			"distanceKm": &graphql.Field{
				Type: graphql.Float,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(*domain.GeneratedRoute).DistanceKm, nil
				},
			},
			"startPoint": &graphql.Field{Type: coordinateType},
			"metadata":   &graphql.Field{Type: metadataType},
		},
	})

	coordinateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "CoordinateInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"lat": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"lng": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	screenPointInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ScreenPointInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"x": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"y": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
		},
	})

	generateInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "GenerateRouteInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"points":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(coordinateInput))},
			"screenPoints":  &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(screenPointInput))},
			"maxDistanceKm": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.Float)},
			"userLocation":  &graphql.InputObjectFieldConfig{Type: coordinateInput},
			"profile":       &graphql.InputObjectFieldConfig{Type: graphql.String, DefaultValue: string(domain.ProfileFoot)},
			"name":          &graphql.InputObjectFieldConfig{Type: graphql.String},
			"description":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"profiles": &graphql.Field{
				Type:        graphql.NewList(profileType),
				Description: "Supported travel profiles and their parameters",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					out := make([]map[string]interface{}, 0, len(domain.Profiles))
					for _, prof := range domain.Profiles {
						s := prof.Settings()
						out = append(out, map[string]interface{}{
							"name":                    string(prof),
							"maxWaypoints":            s.MaxWaypoints,
							"smoothingIterations":     s.SmoothingIterations,
							"interpolationStepMeters": s.InterpolationStepMeters,
							"variationScale":          s.VariationScale,
							"naturalDeviation":        s.NaturalDeviation,
							"apiProfile":              s.APIProfile,
							"avoidFeatures":           s.AvoidFeatures,
						})
					}
					return out, nil
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"generateRoute": &graphql.Field{
				Type:        routeType,
				Description: "Generate a road-following route from a drawing",
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(generateInput)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req, err := decodeGenerateInput(p.Args["input"])
					if err != nil {
						return nil, err
					}
					route, err := deps.Routes.Generate(p.Context, req)
					if err != nil {
						if errors.Is(err, domain.ErrInvalidInput) {
							return nil, err
						}
						LoggerFromCtx(p.Context).Error("route generation failed", "error", err)
						return nil, errors.New("route generation failed")
					}
					return route, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// decodeGenerateInput maps the coerced GraphQL input object onto a request.
// Field names match the JSON body of POST /v1/routes/generate.
func decodeGenerateInput(input interface{}) (domain.GenerateRequest, error) {
	var req domain.GenerateRequest
	data, err := json.Marshal(input)
	if err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return req, nil
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil || req.Query == "" {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.JSON(result)
	}
}

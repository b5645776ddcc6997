package domain

import "fmt"

// TravelProfile is the mode of travel a route is generated for.
type TravelProfile string

const (
	ProfileFoot TravelProfile = "foot"
	ProfileBike TravelProfile = "bike"
	ProfileCar  TravelProfile = "car"
)

// Profiles lists every supported profile in display order.
var Profiles = []TravelProfile{ProfileFoot, ProfileBike, ProfileCar}

// ProfileSettings is the fixed parameter bundle attached to a TravelProfile.
type ProfileSettings struct {
	MaxWaypoints            int      `json:"maxWaypoints"`
	SmoothingIterations     int      `json:"smoothingIterations"`
	InterpolationStepMeters float64  `json:"interpolationStepMeters"`
	VariationScale          float64  `json:"variationScale"`
	PrimaryNoiseWeight      float64  `json:"-"`
	SecondaryNoiseWeight    float64  `json:"-"`
	NaturalDeviation        bool     `json:"naturalDeviation"`
	APIProfile              string   `json:"apiProfile"`
	AvoidFeatures           []string `json:"avoidFeatures"`
}

var profileSettings = map[TravelProfile]ProfileSettings{
	ProfileFoot: {
		MaxWaypoints:            25,
		SmoothingIterations:     3,
		InterpolationStepMeters: 20,
		VariationScale:          1.0,
		PrimaryNoiseWeight:      0.6,
		SecondaryNoiseWeight:    0.4,
		NaturalDeviation:        true,
		APIProfile:              "foot-walking",
		AvoidFeatures:           []string{"ferries", "fords"},
	},
	ProfileBike: {
		MaxWaypoints:            30,
		SmoothingIterations:     2,
		InterpolationStepMeters: 35,
		VariationScale:          0.6,
		PrimaryNoiseWeight:      0.7,
		SecondaryNoiseWeight:    0.3,
		APIProfile:              "cycling-regular",
		AvoidFeatures:           []string{"ferries", "steps"},
	},
	ProfileCar: {
		MaxWaypoints:            40,
		SmoothingIterations:     1,
		InterpolationStepMeters: 60,
		VariationScale:          0.3,
		PrimaryNoiseWeight:      0.85,
		SecondaryNoiseWeight:    0.15,
		APIProfile:              "driving-car",
		AvoidFeatures:           []string{"ferries"},
	},
}

// ParseProfile converts a request string into a TravelProfile.
// An empty string selects ProfileFoot.
func ParseProfile(s string) (TravelProfile, error) {
	if s == "" {
		return ProfileFoot, nil
	}
	p := TravelProfile(s)
	if _, ok := profileSettings[p]; !ok {
		return "", fmt.Errorf("%w: unknown profile %q", ErrInvalidInput, s)
	}
	return p, nil
}

// Valid reports whether p is one of the supported profiles.
func (p TravelProfile) Valid() bool {
	_, ok := profileSettings[p]
	return ok
}

// Settings returns the parameter bundle for p. Unknown profiles get the foot bundle.
func (p TravelProfile) Settings() ProfileSettings {
	s, ok := profileSettings[p]
	if !ok {
		s = profileSettings[ProfileFoot]
	}
	s.AvoidFeatures = append([]string(nil), s.AvoidFeatures...)
	return s
}

package records

import "slices"

// Platform identifies one of the two synced platforms.
type Platform string

// String returns the string representation of a platform.
func (p Platform) String() string {
	return string(p)
}

// The synced platforms.
const (
	Hubspot Platform = "hubspot"
	Monday  Platform = "monday"
)

// Platforms returns both platforms.
func Platforms() []Platform {
	return []Platform{Hubspot, Monday}
}

// IsValid returns true if the platform is one of the defined constants.
func (p Platform) IsValid() bool {
	return slices.Contains(Platforms(), p)
}

// Direction identifies one reconciliation direction. The source platform's
// values are pushed to the target platform.
type Direction string

// String returns the string representation of a direction.
func (d Direction) String() string {
	return string(d)
}

// The reconciliation directions. A full pass runs HubspotToMonday first,
// then MondayToHubspot; for fields owned by both platforms the second
// direction's source wins.
const (
	HubspotToMonday Direction = "hubspot_to_monday"
	MondayToHubspot Direction = "monday_to_hubspot"
)

// Directions returns both directions in full-pass order.
func Directions() []Direction {
	return []Direction{HubspotToMonday, MondayToHubspot}
}

// IsValid returns true if the direction is one of the defined constants.
func (d Direction) IsValid() bool {
	return slices.Contains(Directions(), d)
}

// Source returns the platform whose values are pushed in this direction.
func (d Direction) Source() Platform {
	if d == MondayToHubspot {
		return Monday
	}
	return Hubspot
}

// Target returns the platform that receives values in this direction.
func (d Direction) Target() Platform {
	if d == MondayToHubspot {
		return Hubspot
	}
	return Monday
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == MondayToHubspot {
		return HubspotToMonday
	}
	return MondayToHubspot
}

// Package docs Gun Locker API.
//
// Documentation of Gun Locker API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://api.gunlocker.app
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - bearer
//
//    SecurityDefinitions:
//    bearer:
//      type: apiKey
//      name: Authorization
//      in: header
//
// swagger:meta
package docs

import (
	"github.com/linesmerrill/gun-locker-api/models"
	"github.com/linesmerrill/gun-locker-api/stats"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// The error body written for any failed request.
// swagger:response errorResponse
type errorResponseWrapper struct {
	// in:body
	Body models.ErrorMessageResponse
}

// swagger:route GET /api/v1/firearm/{firearm_id} firearm firearmByID
// Gets a single firearm by ID.
// responses:
//   200: firearmByIDResponse
//   404: errorResponse

// Shows a single firearm by the given {ID}
// swagger:response firearmByIDResponse
type firearmByIDResponseWrapper struct {
	// in:body
	Body models.Firearm
}

// swagger:route GET /api/v1/firearms firearm firearms
// Lists the caller's firearms, optionally filtered by status, type or caliber.
// responses:
//   200: firearmsResponse

// All firearms owned by the caller.
// swagger:response firearmsResponse
type firearmsResponseWrapper struct {
	// in:body
	Body []models.Firearm
}

// swagger:route GET /api/v1/ammunition ammunition ammunitionList
// Lists the caller's ammunition lots, optionally filtered by caliber.
// responses:
//   200: ammunitionResponse

// All ammunition lots owned by the caller.
// swagger:response ammunitionResponse
type ammunitionResponseWrapper struct {
	// in:body
	Body []models.Ammunition
}

// swagger:route GET /api/v1/range-trips rangeTrip rangeTrips
// Lists the caller's range trips, most recent first.
// responses:
//   200: rangeTripsResponse

// All range trips owned by the caller.
// swagger:response rangeTripsResponse
type rangeTripsResponseWrapper struct {
	// in:body
	Body []models.RangeTrip
}

// swagger:route POST /api/v1/range-trip/{range_trip_id}/ammo rangeTrip logAmmoUsage
// Records rounds fired on a trip and rolls the ammunition and round-count
// counters forward.
// responses:
//   201: ammoUsageResponse

// The created ammo usage row.
// swagger:response ammoUsageResponse
type ammoUsageResponseWrapper struct {
	// in:body
	Body models.RangeTripAmmo
}

// swagger:route GET /api/v1/dashboard/warranty-alerts dashboard warrantyAlerts
// Lists items whose warranties are expired or expiring within 90 days.
// responses:
//   200: warrantyAlertsResponse

// Warranty alerts sorted most urgent first.
// swagger:response warrantyAlertsResponse
type warrantyAlertsResponseWrapper struct {
	// in:body
	Body []stats.WarrantyAlert
}

// swagger:route GET /api/v1/dashboard/low-ammo dashboard lowAmmo
// Lists caliber buckets at or below the round-count threshold.
// responses:
//   200: lowAmmoResponse

// Low ammunition alerts sorted lowest quantity first.
// swagger:response lowAmmoResponse
type lowAmmoResponseWrapper struct {
	// in:body
	Body []stats.LowAmmoAlert
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/api"
	"github.com/linesmerrill/gun-locker-api/config"
	"github.com/linesmerrill/gun-locker-api/databases"
	"github.com/linesmerrill/gun-locker-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper), RDB: databases.NewPasswordResetDatabase(a.dbHelper)}
	f := Firearm{DB: databases.NewFirearmDatabase(a.dbHelper)}
	ammo := Ammunition{DB: databases.NewAmmunitionDatabase(a.dbHelper)}
	g := Gear{DB: databases.NewGearDatabase(a.dbHelper)}
	o := Optic{DB: databases.NewOpticDatabase(a.dbHelper)}
	acc := Accessory{DB: databases.NewAccessoryDatabase(a.dbHelper)}
	ml := MaintenanceLog{DB: databases.NewMaintenanceLogDatabase(a.dbHelper)}
	trip := RangeTrip{
		DB:     databases.NewRangeTripDatabase(a.dbHelper),
		ADB:    databases.NewRangeTripAmmoDatabase(a.dbHelper),
		AmmoDB: databases.NewAmmunitionDatabase(a.dbHelper),
		FDB:    databases.NewFirearmDatabase(a.dbHelper),
	}
	dash := Dashboard{
		FDB:    databases.NewFirearmDatabase(a.dbHelper),
		AmmoDB: databases.NewAmmunitionDatabase(a.dbHelper),
		GDB:    databases.NewGearDatabase(a.dbHelper),
		ODB:    databases.NewOpticDatabase(a.dbHelper),
		ADB:    databases.NewAccessoryDatabase(a.dbHelper),
	}
	export := Export{Inv: dash}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/login", http.HandlerFunc(u.UserLoginHandler)).Methods("POST")
	apiCreate.Handle("/user/forgot-password", http.HandlerFunc(u.ForgotPasswordHandler)).Methods("POST")
	apiCreate.Handle("/user/reset-password", http.HandlerFunc(u.ResetPasswordHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/firearm", api.Middleware(http.HandlerFunc(f.CreateFirearmHandler))).Methods("POST")
	apiCreate.Handle("/firearm/{firearm_id}", api.Middleware(http.HandlerFunc(f.FirearmByIDHandler))).Methods("GET")
	apiCreate.Handle("/firearm/{firearm_id}", api.Middleware(http.HandlerFunc(f.UpdateFirearmHandler))).Methods("PATCH")
	apiCreate.Handle("/firearm/{firearm_id}", api.Middleware(http.HandlerFunc(f.DeleteFirearmHandler))).Methods("DELETE")
	apiCreate.Handle("/firearm/{firearm_id}/round-count", api.Middleware(http.HandlerFunc(f.UpdateRoundCountHandler))).Methods("PATCH")
	apiCreate.Handle("/firearms", api.Middleware(http.HandlerFunc(f.FirearmHandler))).Methods("GET")
	apiCreate.Handle("/firearms/search", api.Middleware(http.HandlerFunc(f.FirearmsSearchHandler))).Methods("GET")

	apiCreate.Handle("/ammunition", api.Middleware(http.HandlerFunc(ammo.CreateAmmunitionHandler))).Methods("POST")
	apiCreate.Handle("/ammunition", api.Middleware(http.HandlerFunc(ammo.AmmunitionHandler))).Methods("GET")
	apiCreate.Handle("/ammunition/{ammunition_id}", api.Middleware(http.HandlerFunc(ammo.AmmunitionByIDHandler))).Methods("GET")
	apiCreate.Handle("/ammunition/{ammunition_id}", api.Middleware(http.HandlerFunc(ammo.UpdateAmmunitionHandler))).Methods("PATCH")
	apiCreate.Handle("/ammunition/{ammunition_id}", api.Middleware(http.HandlerFunc(ammo.DeleteAmmunitionHandler))).Methods("DELETE")

	apiCreate.Handle("/gear", api.Middleware(http.HandlerFunc(g.CreateGearHandler))).Methods("POST")
	apiCreate.Handle("/gear", api.Middleware(http.HandlerFunc(g.GearHandler))).Methods("GET")
	apiCreate.Handle("/gear/{gear_id}", api.Middleware(http.HandlerFunc(g.GearByIDHandler))).Methods("GET")
	apiCreate.Handle("/gear/{gear_id}", api.Middleware(http.HandlerFunc(g.UpdateGearHandler))).Methods("PATCH")
	apiCreate.Handle("/gear/{gear_id}", api.Middleware(http.HandlerFunc(g.DeleteGearHandler))).Methods("DELETE")

	apiCreate.Handle("/optic", api.Middleware(http.HandlerFunc(o.CreateOpticHandler))).Methods("POST")
	apiCreate.Handle("/optics", api.Middleware(http.HandlerFunc(o.OpticHandler))).Methods("GET")
	apiCreate.Handle("/optic/{optic_id}", api.Middleware(http.HandlerFunc(o.OpticByIDHandler))).Methods("GET")
	apiCreate.Handle("/optic/{optic_id}", api.Middleware(http.HandlerFunc(o.UpdateOpticHandler))).Methods("PATCH")
	apiCreate.Handle("/optic/{optic_id}", api.Middleware(http.HandlerFunc(o.DeleteOpticHandler))).Methods("DELETE")

	apiCreate.Handle("/accessory", api.Middleware(http.HandlerFunc(acc.CreateAccessoryHandler))).Methods("POST")
	apiCreate.Handle("/accessories", api.Middleware(http.HandlerFunc(acc.AccessoryHandler))).Methods("GET")
	apiCreate.Handle("/accessory/{accessory_id}", api.Middleware(http.HandlerFunc(acc.AccessoryByIDHandler))).Methods("GET")
	apiCreate.Handle("/accessory/{accessory_id}", api.Middleware(http.HandlerFunc(acc.UpdateAccessoryHandler))).Methods("PATCH")
	apiCreate.Handle("/accessory/{accessory_id}", api.Middleware(http.HandlerFunc(acc.DeleteAccessoryHandler))).Methods("DELETE")

	apiCreate.Handle("/maintenance-log", api.Middleware(http.HandlerFunc(ml.CreateMaintenanceLogHandler))).Methods("POST")
	apiCreate.Handle("/maintenance-logs", api.Middleware(http.HandlerFunc(ml.MaintenanceLogHandler))).Methods("GET")
	apiCreate.Handle("/maintenance-log/{maintenance_log_id}", api.Middleware(http.HandlerFunc(ml.MaintenanceLogByIDHandler))).Methods("GET")
	apiCreate.Handle("/maintenance-log/{maintenance_log_id}", api.Middleware(http.HandlerFunc(ml.UpdateMaintenanceLogHandler))).Methods("PATCH")
	apiCreate.Handle("/maintenance-log/{maintenance_log_id}", api.Middleware(http.HandlerFunc(ml.DeleteMaintenanceLogHandler))).Methods("DELETE")

	apiCreate.Handle("/range-trip", api.Middleware(http.HandlerFunc(trip.CreateRangeTripHandler))).Methods("POST")
	apiCreate.Handle("/range-trips", api.Middleware(http.HandlerFunc(trip.RangeTripHandler))).Methods("GET")
	apiCreate.Handle("/range-trip/{range_trip_id}", api.Middleware(http.HandlerFunc(trip.RangeTripByIDHandler))).Methods("GET")
	apiCreate.Handle("/range-trip/{range_trip_id}", api.Middleware(http.HandlerFunc(trip.UpdateRangeTripHandler))).Methods("PATCH")
	apiCreate.Handle("/range-trip/{range_trip_id}", api.Middleware(http.HandlerFunc(trip.DeleteRangeTripHandler))).Methods("DELETE")
	apiCreate.Handle("/range-trip/{range_trip_id}/ammo", api.Middleware(http.HandlerFunc(trip.RangeTripAmmoHandler))).Methods("GET")
	apiCreate.Handle("/range-trip/{range_trip_id}/ammo", api.Middleware(http.HandlerFunc(trip.LogAmmoUsageHandler))).Methods("POST")
	apiCreate.Handle("/range-trip-ammo/{usage_id}", api.Middleware(http.HandlerFunc(trip.DeleteAmmoUsageHandler))).Methods("DELETE")

	apiCreate.Handle("/dashboard/stats", api.Middleware(http.HandlerFunc(dash.StatsHandler))).Methods("GET")
	apiCreate.Handle("/dashboard/warranty-alerts", api.Middleware(http.HandlerFunc(dash.WarrantyAlertsHandler))).Methods("GET")
	apiCreate.Handle("/dashboard/low-ammo", api.Middleware(http.HandlerFunc(dash.LowAmmoHandler))).Methods("GET")

	apiCreate.Handle("/inventory/export", api.Middleware(http.HandlerFunc(export.InventoryCSVHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")
	apiCreate.Handle("/file-url", api.Middleware(http.HandlerFunc(cloudinaryHandler.FileURLHandler))).Methods("GET")

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("gun-locker-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil

}

// DBHelper exposes the connected database helper for wiring background jobs
func (a *App) DBHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

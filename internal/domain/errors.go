package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Profile errors
var (
	ErrProfileNotFound      = errors.New("profile not found")
	ErrProfileAlreadyExists = errors.New("profile already exists")
	ErrInvalidRole          = errors.New("invalid profile role")
)

// Company errors
var (
	ErrCompanyNotFound      = errors.New("company not found")
	ErrCompanyAlreadyExists = errors.New("company already exists")
	ErrInvalidCompanyData   = errors.New("invalid company data")
)

// Vehicle errors
var (
	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrVehicleAlreadyExists  = errors.New("vehicle already exists")
	ErrVehicleInUse          = errors.New("vehicle is referenced by shipments")
	ErrInvalidEmissionFactor = errors.New("emission factor must be positive")
	ErrInvalidVehicleData    = errors.New("invalid vehicle data")
)

// Shipment errors
var (
	ErrShipmentNotFound      = errors.New("shipment not found")
	ErrInvalidWeight         = errors.New("weight must be positive")
	ErrInvalidDistance       = errors.New("distance must be positive")
	ErrSameOriginDestination = errors.New("origin and destination must differ")
	ErrInvalidShipmentData   = errors.New("invalid shipment data")
	ErrInvalidMetricsInput   = errors.New("metrics inputs must be non-negative")
	ErrRouteUnresolved       = errors.New("route could not be resolved")
	ErrPlaceNotFound         = errors.New("place not found")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)

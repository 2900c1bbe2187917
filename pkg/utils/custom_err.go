package utils

import "errors"

var (
	ErrInvalidPage     = errors.New("invalid page parameter")
	ErrInvalidPageSize = errors.New("invalid page size parameter")
	ErrDatabaseError   = errors.New("database error")
	ErrInvalidInput    = errors.New("invalid input")

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrProfilePrivate     = errors.New("profile is private")
	ErrCannotFollowSelf   = errors.New("cannot follow yourself")

	ErrPlaceNotFound   = errors.New("place not found")
	ErrPlaceNotMatched = errors.New("no place matches the prediction")
	ErrPlaceAmbiguous  = errors.New("prediction matches more than one place")

	ErrPhotoNotFound     = errors.New("photo not found")
	ErrInvalidImage      = errors.New("invalid image")
	ErrImageTooLarge     = errors.New("image too large")
	ErrUnsupportedImage  = errors.New("unsupported image type")
	ErrStorageFailure    = errors.New("photo storage failure")
	ErrClassifierFailed  = errors.New("classifier request failed")
	ErrClassifierTimeout = errors.New("classifier timed out")
	ErrRecognitionFailed = errors.New("landmark not recognized")
)

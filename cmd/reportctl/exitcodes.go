package main

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/branch-report-go/internal/client"
	"github.com/cmlabs-hris/branch-report-go/internal/pkg/validator"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitAuth       = 4
	exitAPI        = 5
	exitTransport  = 6
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return exitValidation
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return exitAuth
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return exitValidation
		}
		return exitAPI
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return exitTransport
	}
	return 1
}

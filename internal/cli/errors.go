package cli

import "errors"

// errUnexpectedFailures is returned by apply --fail-on-error when a statement
// failed for a reason other than the object already existing.
var errUnexpectedFailures = errors.New("apply finished with unexpected statement failures")

// errHighSeverityFindings is returned when --fail-on-high is set and high findings exist.
var errHighSeverityFindings = errors.New("high severity findings detected")

// errMissingTables is returned by verify when expected tables are absent.
var errMissingTables = errors.New("schema verification failed: tables missing")

// errConfirmationRequired is returned by reset without --yes.
var errConfirmationRequired = errors.New("reset drops every table in the public schema; pass --yes to confirm")

// errPostgresOnly is returned by catalog commands on other drivers.
var errPostgresOnly = errors.New("command requires the postgres driver")

package main

import (
	"github.com/pkg/errors"

	"admindesk/client"
)

// fileTokenSource reads the token from the session file and clears it when
// the server reports the session expired.
type fileTokenSource struct {
	token string
}

func (s *fileTokenSource) Token() string { return s.token }

func (s *fileTokenSource) Clear() error {
	s.token = ""
	return deleteConfig()
}

func getClient() (*client.Client, error) {
	config, err := getConfig()
	if err != nil {
		return nil, errors.Wrap(err, "error retrieving session")
	}
	return client.New(
		config.APIAddress,
		&fileTokenSource{token: config.Token},
		nil,
	), nil
}

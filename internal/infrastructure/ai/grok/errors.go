package grok

import "errors"

var errNoChoices = errors.New("no response choices returned")

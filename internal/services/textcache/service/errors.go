package service

import perr "insightbff/internal/platform/errors"

var errEmpty = perr.Unavailablef("provider returned empty text")

package handler

import (
    "errors"
    "strconv"
)

// getUserID converts the "user_id" context value set by the JWT
// middleware into a uint64.  JWT numeric claims decode as float64, but
// a string subject is tolerated as well.
func getUserID(v interface{}) (uint64, error) {
    switch t := v.(type) {
    case float64:
        return uint64(t), nil
    case string:
        n, err := strconv.ParseUint(t, 10, 64)
        if err != nil {
            return 0, errors.New("invalid user id")
        }
        return n, nil
    case uint64:
        return t, nil
    case int64:
        return uint64(t), nil
    }
    return 0, errors.New("missing user id")
}

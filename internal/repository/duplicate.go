package repository

import (
    "errors"
    "strings"

    "github.com/go-sql-driver/mysql"
)

// isDuplicateEntry reports whether err is a MySQL duplicate-key
// violation (error 1062).  The accept path relies on this to convert
// the uniqueness backstop on accepted appointments into a conflict
// outcome instead of letting a raw driver error escape.
func isDuplicateEntry(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == 1062
    }
    // drivers wrapped by instrumentation may only expose the message
    return err != nil && strings.Contains(err.Error(), "1062")
}

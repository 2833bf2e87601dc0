package repository

import "errors"

var ErrNotFound = errors.New("not found")

// メール重複（一意制約違反）
var ErrDuplicateEmail = errors.New("email already exists")

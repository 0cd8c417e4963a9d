package model //import "github.com/niktanya/telegram-book-bot/model"

// Job is one unit of dispatch work: a single inbound chat event bound
// to the user it belongs to. Jobs for the same user are processed in
// order, one at a time.
type Job struct {
	UserID int64
	Item   interface{}
}

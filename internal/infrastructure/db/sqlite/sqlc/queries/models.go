package queries

type Account struct {
	Key       string
	Owner     string
	Lamports  int64
	Data      []byte
	UpdatedAt int64
}

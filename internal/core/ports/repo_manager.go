package ports

import "github.com/arkade-os/mint-registry/internal/core/domain"

type RepoManager interface {
	Accounts() domain.AccountRepository
	Close()
}

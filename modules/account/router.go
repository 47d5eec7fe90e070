package account

import (
	"github.com/go-chi/chi/v5"
)

// Mountable registers its routes on a router.
type Mountable interface {
	Mount(r chi.Router)
}

// RouterOptions configures which services to mount in the account module.
// Each service is optional and will only be mounted if provided.
type RouterOptions struct {
	Password    Mountable
	Session     Mountable
	GoogleOAuth Mountable
}

// Router creates the auth router. Mount it under /api/auth.
//
//	r.Mount("/api/auth", account.Router(account.RouterOptions{
//		Password: account.NewPasswordService(authSvc, errHandler),
//		Session:  account.NewSessionService(authSvc, errHandler),
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()
	for _, m := range []Mountable{opts.Password, opts.Session, opts.GoogleOAuth} {
		if m != nil {
			m.Mount(r)
		}
	}
	return r
}

package app

import (
	"errors"
	"log/slog"

	"github.com/freekieb7/coyote/http"
	"github.com/freekieb7/coyote/session"
	"github.com/freekieb7/coyote/session/storage"
	"github.com/freekieb7/coyote/validation"
)

const (
	pathIndex        = "/index.html"
	pathLogin        = "/login.html"
	pathRegister     = "/register.html"
	pathUnauthorized = "/401.html"

	sessionUserKey = "user"
)

var registerRules = map[string][]string{
	"account":  {"required", "alphanum", "min:3", "max:32"},
	"password": {"required", "min:8", "max:64"},
	"email":    {"required", "email"},
}

type Options struct {
	Resources http.ResourceResolver
	Users     *UserRepository
	Sessions  storage.SessionStore
	Logger    *slog.Logger
}

// App holds the application handlers mounted on the front router.
type App struct {
	resources http.ResourceResolver
	users     *UserRepository
	sessions  storage.SessionStore
	logger    *slog.Logger
}

func New(opts Options) *App {
	a := &App{
		resources: opts.Resources,
		users:     opts.Users,
		sessions:  opts.Sessions,
		logger:    opts.Logger,
	}
	if a.users == nil {
		a.users = NewUserRepository()
	}
	if a.sessions == nil {
		a.sessions = storage.NewMemorySessionStore()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// Register mounts the application handlers on router.
func (a *App) Register(router *http.Router) {
	router.Get("/", a.home)
	router.Handle("/login", http.Handler{OnGet: a.loginPage, OnPost: a.login})
	router.Handle("/register", http.Handler{OnGet: a.registerPage, OnPost: a.register})
	router.Post("/logout", a.logout)
}

func (a *App) home(req *http.Request, res *http.Response) {
	res.SetStatus(http.StatusOK)
	res.SetBody(http.TextBody("Hello world!"))
}

func (a *App) loginPage(req *http.Request, res *http.Response) {
	if _, ok := a.currentSession(req); ok {
		a.redirect(res, pathIndex)
		return
	}
	a.serveResource(res, pathLogin)
}

func (a *App) login(req *http.Request, res *http.Response) {
	form := req.Form()

	user, err := a.users.FindByAccount(form["account"])
	if err != nil || !user.CheckPassword(form["password"]) {
		a.logger.Info("login rejected", "account", form["account"])
		a.redirect(res, pathUnauthorized)
		return
	}

	sess := session.New()
	sess.Set(sessionUserKey, user)
	if err := a.sessions.Save(sess); err != nil {
		a.logger.Error("saving session failed", "error", err)
		a.serverError(res)
		return
	}

	jar := http.NewJar(nil)
	if err := jar.Set(session.CookieName, sess.ID()); err != nil {
		a.logger.Error("building session cookie failed", "error", err)
		a.serverError(res)
		return
	}

	if err := res.SetCookie(jar); err != nil {
		a.logger.Error("writing session cookie failed", "error", err)
		a.serverError(res)
		return
	}

	a.logger.Info("user logged in", "account", user.Account)
	a.redirect(res, pathIndex)
}

func (a *App) registerPage(req *http.Request, res *http.Response) {
	a.serveResource(res, pathRegister)
}

func (a *App) register(req *http.Request, res *http.Response) {
	form := req.Form()

	violations := validation.ValidateForm(form, registerRules)
	if !violations.IsEmpty() {
		body, err := http.JSONBody(violations)
		if err != nil {
			a.logger.Error("encoding violations failed", "error", err)
			a.serverError(res)
			return
		}
		res.SetStatus(http.StatusBadRequest)
		res.SetBody(body)
		return
	}

	user, err := a.users.Save(User{
		Account:  form["account"],
		Password: form["password"],
		Email:    form["email"],
	})
	if errors.Is(err, ErrUserExists) {
		res.SetStatus(http.StatusConflict)
		res.SetBody(http.TextBody(err.Error()))
		return
	}
	if err != nil {
		a.logger.Error("registering user failed", "error", err)
		a.serverError(res)
		return
	}

	a.logger.Info("user registered", "account", user.Account, "id", user.ID)
	a.redirect(res, pathIndex)
}

func (a *App) logout(req *http.Request, res *http.Response) {
	if sess, ok := a.currentSession(req); ok {
		if err := a.sessions.Delete(sess.ID()); err != nil {
			a.logger.Error("deleting session failed", "error", err)
		}
	}

	if err := res.AddHeader(http.HeaderSetCookie, session.CookieName+"=; Max-Age=0"); err != nil {
		a.logger.Error("clearing session cookie failed", "error", err)
	}
	a.redirect(res, pathIndex)
}

func (a *App) currentSession(req *http.Request) (session.Session, bool) {
	id, found := req.Cookie(session.CookieName)
	if !found || id == "" {
		return nil, false
	}

	sess, err := a.sessions.Get(id)
	if err != nil {
		return nil, false
	}
	return sess, true
}

func (a *App) serveResource(res *http.Response, path string) {
	body, err := a.resources.Resolve(path)
	if err != nil {
		a.logger.Error("bundled resource missing", "path", path, "error", err)
		a.serverError(res)
		return
	}

	res.SetStatus(http.StatusOK)
	res.SetBody(body)
}

func (a *App) redirect(res *http.Response, location string) {
	if err := res.SendRedirect(location); err != nil {
		a.logger.Error("redirect failed", "location", location, "error", err)
		a.serverError(res)
	}
}

func (a *App) serverError(res *http.Response) {
	res.SetStatus(http.StatusInternalServerError)
	res.SetBody(http.TextBody(http.StatusInternalServerError.String()))
}

package autoforms

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/autoforms/autoforms/auth"
	"github.com/autoforms/autoforms/render"
	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/session"
	"github.com/autoforms/autoforms/store"
)

// returnTargets pages login may send the user back to
var returnTargets = []string{
	string(schema.OpList),
	string(schema.OpAdd),
	string(schema.OpEdit),
	string(schema.OpArchive),
	string(schema.OpDelete),
}

func returnTarget(r *http.Request) string {
	for _, key := range []string{"return", "back"} {
		target := strings.TrimSpace(r.FormValue(key))
		for _, allowed := range returnTargets {
			if target == allowed {
				return target
			}
		}
	}
	return string(schema.OpList)
}

func (s *Server) login(c *Context) {
	page := &render.LoginPage{Page: c.Page("Login"), Return: returnTarget(c.Request)}

	if c.Request.Method != http.MethodPost {
		c.Render(render.PageLogin, page)
		return
	}

	username := strings.TrimSpace(c.Request.PostFormValue("username"))
	page.Username = username
	c.Info(fmt.Sprintf("user %s attempting login", username))

	user, err := s.authenticateUser(c, username, c.Request.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, ErrAuth) {
			c.Warn(fmt.Sprintf("login failed for %s from %s", username, clientIP(c.Request)), err)
			page.Alert = "Username or password invalid!"
		} else {
			c.Error("login", err)
			page.Alert = "Login is unavailable, please try again later."
		}
		c.Render(render.PageLogin, page)
		return
	}

	if err := s.Sessions.Save(c.Writer, c.Request, &session.Session{Username: user.Username, Stamp: session.Stamp(user.Password)}); err != nil {
		c.Error("saving session", err)
		page.Alert = "Login is unavailable, please try again later."
		c.Render(render.PageLogin, page)
		return
	}

	c.Info(fmt.Sprintf("login successful for %s from %s", username, clientIP(c.Request)))
	c.Redirect(page.Return)
}

func (s *Server) authenticateUser(c *Context, username, password string) (*store.User, error) {
	h, err := c.Begin()
	if err != nil {
		return nil, err
	}
	defer c.Done(h)

	user, err := h.FindUser(username)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no user %s", ErrAuth, username)
		}
		return nil, err
	}

	if !user.Active {
		return nil, fmt.Errorf("%w: user %s is archived", ErrAuth, username)
	}

	if err := auth.Compare(user.Password, password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	return user, nil
}

func (s *Server) create(c *Context) {
	page := &render.CreatePage{Page: c.Page("Create Account")}

	if c.Request.Method != http.MethodPost {
		c.Render(render.PageCreate, page)
		return
	}

	credentials := auth.Credentials{
		Username:     strings.TrimSpace(c.Request.PostFormValue("username")),
		Email:        strings.TrimSpace(c.Request.PostFormValue("email")),
		Password:     c.Request.PostFormValue("password"),
		Confirmation: c.Request.PostFormValue("password2"),
	}
	page.Username, page.Email = credentials.Username, credentials.Email

	user, err := s.createUser(c, credentials)
	if err != nil {
		var perr *auth.PolicyError
		switch {
		case errors.As(err, &perr):
			page.Alert = perr.Message
		case errors.Is(err, store.ErrDuplicatedKey):
			page.Alert = "That username already exists."
		default:
			c.Error("creating account", err)
			page.Alert = "The account could not be created, please try again later."
		}
		c.Render(render.PageCreate, page)
		return
	}

	c.Info(fmt.Sprintf("created account %s", user.Username))
	if err := s.Sessions.Save(c.Writer, c.Request, &session.Session{Username: user.Username, Stamp: session.Stamp(user.Password)}); err != nil {
		c.Error("saving session", err)
		c.Redirect("login")
		return
	}
	c.Redirect(string(schema.OpList))
}

func (s *Server) createUser(c *Context, credentials auth.Credentials) (*store.User, error) {
	if err := credentials.Check(); err != nil {
		return nil, err
	}

	h, err := c.Begin()
	if err != nil {
		return nil, err
	}
	defer c.Done(h)

	if _, err := h.FindUser(credentials.Username); err == nil {
		return nil, store.ErrDuplicatedKey
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.Hash(credentials.Password)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Active:      true,
		Email:       credentials.Email,
		Password:    hash,
		Permissions: []int{},
		Username:    credentials.Username,
	}
	if err := h.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Server) logout(c *Context) {
	if c.User != nil {
		c.Info(fmt.Sprintf("%s logged out", c.User.Username))
	}
	s.clearSession(c.Writer, c.Request)
	c.Redirect("login")
}

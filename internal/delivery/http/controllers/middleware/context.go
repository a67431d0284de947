package middleware

const (
	ClientIDCtx    = "client_id"
	ClientRolesCtx = "client_roles"
)

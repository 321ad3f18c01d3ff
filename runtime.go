package crouton

import "context"

// TeamService resolves tenants for generated team-scoped handlers. The
// host application provides the implementation; generated code only
// consumes it. ResolveTeam maps a request-supplied team slug to the
// team id stored on rows, returning ErrTeamNotFound (or a
// TeamNotFoundError) for unknown slugs.
type TeamService interface {
	ResolveTeam(ctx context.Context, slug string) (string, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
}

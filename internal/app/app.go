package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/jun/noteful/internal/handler"
	"github.com/jun/noteful/internal/render"
	"github.com/jun/noteful/internal/secret"
	"github.com/jun/noteful/internal/store/dynamo"
)

// App holds the dependencies for the Lambda function.
type App struct {
	userHandler      *handler.UserHandler
	authHandler      *handler.AuthHandler
	folderHandler    *handler.FolderHandler
	tagHandler       *handler.TagHandler
	noteHandler      *handler.NoteHandler
	apiGatewaySecret string
}

// NewApp initializes the application dependencies. In DEV_MODE the store
// runs on in-process maps and secrets come from environment variables;
// otherwise DynamoDB and SSM Parameter Store are used.
func NewApp(ctx context.Context) *App {
	devMode := os.Getenv("DEV_MODE") == "true"

	var dynamoClient *dynamodb.Client
	var resolver secret.Resolver
	if devMode {
		resolver = secret.NewEnvResolver()
		log.Info().Msg("DEV_MODE: in-memory store, secrets from environment")
	} else {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			panic(fmt.Sprintf("unable to load SDK config, %v", err))
		}
		dynamoClient = dynamodb.NewFromConfig(cfg)
		resolver = secret.NewSSMResolver(ssm.NewFromConfig(cfg))
	}

	jwtSecretParam := os.Getenv("JWT_SECRET_PARAM")
	if jwtSecretParam == "" {
		jwtSecretParam = "/noteful/jwt-secret"
	}
	jwtSecret, err := resolver.GetSecret(ctx, jwtSecretParam)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve JWT secret")
		jwtSecret = "default-dev-secret"
	}

	apiGatewaySecretParam := os.Getenv("API_GATEWAY_SECRET_PARAM")
	if apiGatewaySecretParam == "" {
		apiGatewaySecretParam = "/noteful/api-gateway-secret"
	}
	apiGatewaySecret, err := resolver.GetSecret(ctx, apiGatewaySecretParam)
	if err != nil {
		log.Warn().Err(err).Msg("failed to resolve API gateway secret")
	}

	s := dynamo.NewStore(dynamoClient)
	renderer := render.NewRenderer()

	return &App{
		userHandler:      handler.NewUserHandler(s),
		authHandler:      handler.NewAuthHandler(s, jwtSecret),
		folderHandler:    handler.NewFolderHandler(s, jwtSecret),
		tagHandler:       handler.NewTagHandler(s, jwtSecret),
		noteHandler:      handler.NewNoteHandler(s, renderer, jwtSecret),
		apiGatewaySecret: apiGatewaySecret,
	}
}

// HandleRequest routes API Gateway requests to the appropriate handler.
func (app *App) HandleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	path := req.Path
	method := req.HTTPMethod

	log.Info().Str("method", method).Str("path", path).Msg("request")

	// CORS Preflight
	if method == "OPTIONS" {
		return corsResponse(events.APIGatewayProxyResponse{StatusCode: 204}), nil
	}

	// Only accept requests forwarded by the CloudFront distribution,
	// which injects X-Origin-Verify. Skipped in DEV_MODE.
	if os.Getenv("DEV_MODE") != "true" {
		if req.Headers["X-Origin-Verify"] != app.apiGatewaySecret && req.Headers["x-origin-verify"] != app.apiGatewaySecret {
			log.Warn().Str("path", path).Msg("missing or invalid X-Origin-Verify header")
			return events.APIGatewayProxyResponse{
				StatusCode: http.StatusForbidden,
				Body:       "Forbidden: Access denied",
			}, nil
		}
	}

	// Strip /api prefix if present (for CloudFront proxying)
	if strings.HasPrefix(path, "/api") {
		path = strings.TrimPrefix(path, "/api")
	}

	if req.PathParameters == nil {
		req.PathParameters = make(map[string]string)
	}

	// Unauthenticated routes
	if path == "/users" && method == "POST" {
		return corsResponse(must(app.userHandler.Register(ctx, req))), nil
	}
	if path == "/login" && method == "POST" {
		return corsResponse(must(app.authHandler.Login(ctx, req))), nil
	}
	if path == "/refresh" && method == "POST" {
		return corsResponse(must(app.authHandler.Refresh(ctx, req))), nil
	}

	// /folders
	if path == "/folders" {
		if method == "GET" {
			return corsResponse(must(app.folderHandler.ListFolders(ctx, req))), nil
		}
		if method == "POST" {
			return corsResponse(must(app.folderHandler.CreateFolder(ctx, req))), nil
		}
	}
	if strings.HasPrefix(path, "/folders/") {
		req.PathParameters["id"] = strings.TrimPrefix(path, "/folders/")
		if method == "GET" {
			return corsResponse(must(app.folderHandler.GetFolder(ctx, req))), nil
		}
		if method == "PUT" {
			return corsResponse(must(app.folderHandler.UpdateFolder(ctx, req))), nil
		}
		if method == "DELETE" {
			return corsResponse(must(app.folderHandler.DeleteFolder(ctx, req))), nil
		}
	}

	// /tags
	if path == "/tags" {
		if method == "GET" {
			return corsResponse(must(app.tagHandler.ListTags(ctx, req))), nil
		}
		if method == "POST" {
			return corsResponse(must(app.tagHandler.CreateTag(ctx, req))), nil
		}
	}
	if strings.HasPrefix(path, "/tags/") {
		req.PathParameters["id"] = strings.TrimPrefix(path, "/tags/")
		if method == "GET" {
			return corsResponse(must(app.tagHandler.GetTag(ctx, req))), nil
		}
		if method == "PUT" {
			return corsResponse(must(app.tagHandler.UpdateTag(ctx, req))), nil
		}
		if method == "DELETE" {
			return corsResponse(must(app.tagHandler.DeleteTag(ctx, req))), nil
		}
	}

	// /notes
	if path == "/notes" {
		if method == "GET" {
			return corsResponse(must(app.noteHandler.ListNotes(ctx, req))), nil
		}
		if method == "POST" {
			return corsResponse(must(app.noteHandler.CreateNote(ctx, req))), nil
		}
	}
	if strings.HasPrefix(path, "/notes/") {
		rest := strings.TrimPrefix(path, "/notes/")
		if strings.HasSuffix(rest, "/render") && method == "GET" {
			req.PathParameters["id"] = strings.TrimSuffix(rest, "/render")
			return corsResponse(must(app.noteHandler.RenderNote(ctx, req))), nil
		}
		req.PathParameters["id"] = rest
		if method == "GET" {
			return corsResponse(must(app.noteHandler.GetNote(ctx, req))), nil
		}
		if method == "PUT" {
			return corsResponse(must(app.noteHandler.UpdateNote(ctx, req))), nil
		}
		if method == "DELETE" {
			return corsResponse(must(app.noteHandler.DeleteNote(ctx, req))), nil
		}
	}

	return corsResponse(events.APIGatewayProxyResponse{
		StatusCode: http.StatusNotFound,
		Body:       fmt.Sprintf("Not Found: %s %s", method, path),
	}), nil
}

// corsResponse adds CORS headers to an API Gateway response.
func corsResponse(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers["Access-Control-Allow-Origin"] = os.Getenv("FRONTEND_URL")
	if resp.Headers["Access-Control-Allow-Origin"] == "" {
		resp.Headers["Access-Control-Allow-Origin"] = "http://localhost:3000"
	}
	resp.Headers["Access-Control-Allow-Credentials"] = "true"
	resp.Headers["Access-Control-Allow-Methods"] = "GET,POST,PUT,DELETE,OPTIONS"
	resp.Headers["Access-Control-Allow-Headers"] = "Content-Type,Authorization"
	return resp
}

// must unwraps a handler response, ignoring the error.
func must(resp events.APIGatewayProxyResponse, err error) events.APIGatewayProxyResponse {
	if err != nil {
		log.Error().Err(err).Msg("handler error")
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError, Body: "Internal Server Error"}
	}
	return resp
}

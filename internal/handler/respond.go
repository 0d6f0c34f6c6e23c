package handler

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"
)

// Shared user-facing messages. The backticked forms are part of the API
// contract and asserted by clients.
const (
	msgInvalidID     = "The `id` is not valid"
	msgInvalidBody   = "Invalid request body"
	msgMissingName   = "Missing `name` in request body"
	msgMissingTitle  = "Missing `title` in request body"
	msgDuplicateTag  = "The tag name already exists"
	msgDuplicateUser = "The username already exists"
)

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("marshal response body")
		return internalError()
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// createdResponse is jsonResponse with 201 and a Location header pointing
// at the new resource.
func createdResponse(location string, v any) events.APIGatewayProxyResponse {
	resp := jsonResponse(http.StatusCreated, v)
	if resp.StatusCode == http.StatusCreated {
		resp.Headers["Location"] = location
	}
	return resp
}

// errorResponse is the single place error kinds become transport payloads:
// a status code plus {"message": ...}.
func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return jsonResponse(status, map[string]string{"message": message})
}

// notFound has an empty body: a well-formed id with no owned match gets no
// detail, so a foreign resource is indistinguishable from a missing one.
func notFound() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNotFound}
}

func noContent() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{StatusCode: http.StatusNoContent}
}

func unauthorized() events.APIGatewayProxyResponse {
	return errorResponse(http.StatusUnauthorized, "Unauthorized")
}

func internalError() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"message":"Internal Server Error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

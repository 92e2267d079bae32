// Package docs serves the OpenAPI document behind /swagger.
// Regenerate with: swag init -g cmd/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/users": {
            "get": {"tags": ["users"], "summary": "List founders and investors", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["users"], "summary": "Register a user", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}
        },
        "/users/founders": {"get": {"tags": ["users"], "summary": "List founders", "responses": {"200": {"description": "OK"}}}},
        "/users/investors": {"get": {"tags": ["users"], "summary": "List investors", "responses": {"200": {"description": "OK"}}}},
        "/users/{uuid}": {
            "get": {"tags": ["users"], "summary": "Get a user", "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["users"], "summary": "Update a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}},
            "delete": {"tags": ["users"], "summary": "Delete a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}
        },
        "/users/{uuid}/follow": {
            "post": {"tags": ["users"], "summary": "Follow a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["users"], "summary": "Unfollow a user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Log in", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Log out", "responses": {"200": {"description": "OK"}}}},
        "/auth/me": {"get": {"tags": ["auth"], "summary": "Current user", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/auth/password/forgot": {"post": {"tags": ["auth"], "summary": "Request a password reset code", "responses": {"200": {"description": "OK"}, "429": {"description": "Too Many Requests"}}}},
        "/auth/password/reset": {"post": {"tags": ["auth"], "summary": "Reset a password with a code", "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}}},
        "/founders": {"post": {"tags": ["profiles"], "summary": "Create a founder profile", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/founders/{uuid}": {"get": {"tags": ["profiles"], "summary": "Get a founder profile", "responses": {"200": {"description": "OK"}}}},
        "/investors": {"post": {"tags": ["profiles"], "summary": "Create an investor profile", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/investors/{uuid}": {"get": {"tags": ["profiles"], "summary": "Get an investor profile", "responses": {"200": {"description": "OK"}}}},
        "/startups": {
            "get": {"tags": ["startups"], "summary": "List startups", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["startups"], "summary": "Create a startup", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/startups/{id}": {
            "get": {"tags": ["startups"], "summary": "Get a startup", "responses": {"200": {"description": "OK"}}},
            "put": {"tags": ["startups"], "summary": "Update a startup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["startups"], "summary": "Delete a startup", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/startups/{id}/rounds": {"post": {"tags": ["startups"], "summary": "Add a funding round", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}},
        "/startups/user/{uuid}": {"get": {"tags": ["startups"], "summary": "Startups owned by a user", "responses": {"200": {"description": "OK"}}}},
        "/startups/{id}/pitch-decks": {
            "get": {"tags": ["pitch-decks"], "summary": "List pitch decks", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["pitch-decks"], "summary": "Upload a pitch deck", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/startups/{id}/pitch-decks/active": {"get": {"tags": ["pitch-decks"], "summary": "Active pitch deck", "responses": {"200": {"description": "OK"}}}},
        "/pitch-decks/{id}/activate": {"put": {"tags": ["pitch-decks"], "summary": "Activate a pitch deck", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/pitch-decks/{id}": {"delete": {"tags": ["pitch-decks"], "summary": "Delete a pitch deck", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/posts": {
            "get": {"tags": ["posts"], "summary": "Community feed", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["posts"], "summary": "Create a post", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/posts/{id}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["posts"], "summary": "Delete a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/{id}/like/{userId}": {
            "post": {"tags": ["posts"], "summary": "Like a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}},
            "delete": {"tags": ["posts"], "summary": "Unlike a post", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/{id}/comments": {
            "get": {"tags": ["posts"], "summary": "List comments", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["posts"], "summary": "Add a comment", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}}}
        },
        "/uploads": {"post": {"tags": ["uploads"], "summary": "Upload an image or PDF", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "413": {"description": "Request Entity Too Large"}, "415": {"description": "Unsupported Media Type"}}}},
        "/admin/stats": {"get": {"tags": ["admin"], "summary": "Platform statistics", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}}}},
        "/ws/chat": {"get": {"tags": ["chat"], "summary": "Chat websocket", "security": [{"BearerAuth": []}], "responses": {"101": {"description": "Switching Protocols"}}}},
        "/chat/status": {"get": {"tags": ["chat"], "summary": "Online users", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/chat/conversations": {"get": {"tags": ["chat"], "summary": "Conversation list", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/messages": {"get": {"tags": ["chat"], "summary": "Message history with a peer", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}},
        "/healthz": {"get": {"tags": ["ops"], "summary": "Health check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "FounderNet API",
	Description:      "REST and websocket API connecting startup founders with investors",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

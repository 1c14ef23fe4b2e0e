// Package docs holds the generated Swagger specification.
// Regenerate with: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {"name": "MIT"},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/notifications/generate": {
            "post": {
                "tags": ["notifications"],
                "summary": "Generate notifications for a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "Pipeline result"},
                    "400": {"description": "Bad request"},
                    "404": {"description": "Unknown user"}
                }
            }
        },
        "/triggers/{userID}": {
            "get": {
                "tags": ["notifications"],
                "summary": "Active triggers for a user",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "userID", "in": "path", "required": true, "type": "string"},
                    {"name": "now", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Active triggers"},
                    "404": {"description": "Unknown user"}
                }
            }
        },
        "/safety/test": {
            "post": {
                "tags": ["safety"],
                "summary": "Test food safety for a user",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "Safety report"},
                    "404": {"description": "Unknown user or food"}
                }
            }
        },
        "/evaluate": {
            "post": {
                "tags": ["evaluation"],
                "summary": "Run evaluation sweep",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"name": "request", "in": "body", "schema": {"type": "object"}}],
                "responses": {"200": {"description": "Evaluation report"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["reference"],
                "summary": "List user IDs",
                "produces": ["application/json"],
                "responses": {"200": {"description": "User IDs"}}
            }
        },
        "/users/{userID}": {
            "get": {
                "tags": ["reference"],
                "summary": "Get user profile",
                "produces": ["application/json"],
                "parameters": [{"name": "userID", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "User profile"},
                    "404": {"description": "Unknown user"}
                }
            }
        },
        "/foods": {
            "get": {
                "tags": ["reference"],
                "summary": "List foods",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "veg", "in": "query", "type": "boolean"},
                    {"name": "tag", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "Food catalog"}}
            }
        },
        "/foods/{foodID}": {
            "get": {
                "tags": ["reference"],
                "summary": "Get food item",
                "produces": ["application/json"],
                "parameters": [
                    {"name": "foodID", "in": "path", "type": "string", "required": true}
                ],
                "responses": {"200": {"description": "Food item"}, "404": {"description": "Not found"}}
            }
        },
        "/conditions": {
            "get": {
                "tags": ["reference"],
                "summary": "List health conditions",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Conditions"}}
            }
        },
        "/conditions/{condition}/nutrients": {
            "get": {
                "tags": ["reference"],
                "summary": "Nutrient weights for a condition",
                "produces": ["application/json"],
                "parameters": [{"name": "condition", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Nutrient weights"},
                    "404": {"description": "Unknown condition"}
                }
            }
        },
        "/templates": {
            "get": {
                "tags": ["reference"],
                "summary": "List message templates",
                "produces": ["application/json"],
                "responses": {"200": {"description": "Templates"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8000",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Nutrition Notification Agent API",
	Description:      "Decision pipeline that turns user context (meal times, activity, health conditions) into safe, ranked, paced food notifications.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

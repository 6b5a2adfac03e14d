// Package docs is generated by swag from the handler annotations in api/resources.
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
    "paths": {
        "/robots/data": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["robots"],
                "summary": "Submit robot telemetry",
                "parameters": [
                    {"description": "Telemetry report", "name": "report", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.TelemetryReport"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.IngestAck"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/ws/dashboard": {
            "get": {
                "tags": ["live"],
                "summary": "Live dashboard feed",
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/dashboard/current": {
            "get": {
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Current dashboard snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DashboardSnapshot"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "credentials", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.UserResponse"}}}
            }
        },
        "/inventory/history": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Inventory history",
                "parameters": [
                    {"type": "string", "name": "from_date", "in": "query"},
                    {"type": "string", "name": "to_date", "in": "query"},
                    {"type": "string", "name": "zone", "in": "query"},
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "page", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.HistoryPage"}}}
            }
        },
        "/inventory/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "tags": ["inventory"],
                "summary": "Export inventory history",
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}}
            }
        },
        "/inventory/import": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["inventory"],
                "summary": "Bulk import scans",
                "parameters": [{"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ImportResult"}}}
            }
        },
        "/products": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Product"}}}}
            }
        },
        "/health": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/metrics": {
            "get": {"produces": ["application/json"], "tags": ["system"], "summary": "Event counters", "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "code": {"type": "integer"},
                "request_id": {"type": "string"},
                "details": {}
            }
        },
        "models.Location": {
            "type": "object",
            "properties": {"zone": {"type": "string"}, "row": {"type": "integer"}, "shelf": {"type": "integer"}}
        },
        "models.ScanResult": {
            "type": "object",
            "properties": {"product_id": {"type": "string"}, "quantity": {"type": "integer"}, "status": {"type": "string"}}
        },
        "models.TelemetryReport": {
            "type": "object",
            "required": ["robot_id", "timestamp", "battery_level"],
            "properties": {
                "robot_id": {"type": "string"},
                "timestamp": {"type": "string"},
                "location": {"$ref": "#/definitions/models.Location"},
                "scan_results": {"type": "array", "items": {"$ref": "#/definitions/models.ScanResult"}},
                "battery_level": {"type": "number"},
                "next_checkpoint": {"type": "string"}
            }
        },
        "models.IngestAck": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "message_id": {"type": "string"},
                "rejected_scans": {"type": "array", "items": {"type": "object"}}
            }
        },
        "models.DashboardSnapshot": {
            "type": "object",
            "properties": {
                "robots": {"type": "array", "items": {"type": "object"}},
                "recent_scans": {"type": "array", "items": {"type": "object"}},
                "statistics": {"type": "object"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "models.UserResponse": {
            "type": "object",
            "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}, "role": {"type": "string"}}
        },
        "models.LoginResponse": {
            "type": "object",
            "properties": {"token": {"type": "string"}, "user": {"$ref": "#/definitions/models.UserResponse"}}
        },
        "models.HistoryPage": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "items": {"type": "array", "items": {"type": "object"}},
                "pagination": {"type": "object"}
            }
        },
        "models.ImportResult": {
            "type": "object",
            "properties": {"success": {"type": "integer"}, "failed": {"type": "integer"}, "errors": {"type": "array", "items": {"type": "string"}}}
        },
        "models.Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "category": {"type": "string"},
                "min_stock": {"type": "integer"},
                "optimal_stock": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Warehouse Hub API",
	Description:      "Robot telemetry ingest, live dashboard feed and inventory history.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

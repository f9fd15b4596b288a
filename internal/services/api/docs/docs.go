// Package docs holds the OpenAPI document served at /api/docs; keep it in step
// with the @Router annotations on the handlers
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
  "openapi": "3.0.3",
  "info": {
    "title": "{{.Title}}",
    "description": "{{escape .Description}}",
    "version": "{{.Version}}"
  },
  "paths": {
    "/feed": {
      "get": {
        "tags": ["Feed"],
        "summary": "Newest clusters in a language",
        "parameters": [
          {"name": "lang", "in": "query", "schema": {"type": "string"}},
          {"name": "limit", "in": "query", "schema": {"type": "integer"}},
          {"name": "strict", "in": "query", "schema": {"type": "boolean"}},
          {"name": "category", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {
            "description": "ok",
            "headers": {"X-Pending-Ids": {"schema": {"type": "string"}, "description": "Comma separated cluster ids being translated"}},
            "content": {"application/json": {"schema": {"$ref": "#/components/schemas/FeedPage"}}}
          },
          "422": {"$ref": "#/components/responses/Unprocessable"}
        }
      }
    },
    "/cluster/{id}": {
      "get": {
        "tags": ["Cluster"],
        "summary": "One cluster in a language, translated on demand",
        "parameters": [
          {"name": "id", "in": "path", "required": true, "schema": {"type": "string"}},
          {"name": "lang", "in": "query", "schema": {"type": "string"}}
        ],
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ClusterView"}}}},
          "404": {"$ref": "#/components/responses/NotFound"},
          "422": {"$ref": "#/components/responses/Unprocessable"},
          "503": {"$ref": "#/components/responses/Unavailable"}
        }
      }
    },
    "/translate/batch": {
      "post": {
        "tags": ["Translate"],
        "summary": "Resolve many clusters in one language",
        "parameters": [{"name": "lang", "in": "query", "schema": {"type": "string"}}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"type": "object", "properties": {"ids": {"type": "array", "items": {"type": "string"}}}}}}
        },
        "responses": {
          "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/BatchResult"}}}},
          "422": {"$ref": "#/components/responses/Unprocessable"},
          "429": {"$ref": "#/components/responses/TooManyRequests"}
        }
      }
    },
    "/meta/health": {"get": {"tags": ["Meta"], "summary": "Liveness and uptime", "responses": {"200": {"description": "ok"}}}},
    "/meta/ready": {"get": {"tags": ["Meta"], "summary": "Readiness probe with dependency checks", "responses": {"200": {"description": "ok"}}}},
    "/meta/version": {"get": {"tags": ["Meta"], "summary": "Build and version info", "responses": {"200": {"description": "ok"}}}},
    "/meta/cache": {"get": {"tags": ["Meta"], "summary": "Text cache counters, queue depth and in-flight resolutions", "responses": {"200": {"description": "ok"}}}}
  },
  "components": {
    "schemas": {
      "Resolved": {
        "type": "object",
        "properties": {
          "cluster_id": {"type": "string"},
          "lang": {"type": "string"},
          "title": {"type": "string"},
          "summary": {"type": "string"},
          "details": {"type": "string"},
          "is_translated": {"type": "boolean"},
          "translated_from": {"type": "string"}
        }
      },
      "FeedCard": {
        "type": "object",
        "properties": {
          "cluster_id": {"type": "string"},
          "status": {"type": "string", "enum": ["ready", "pending"]},
          "lang": {"type": "string"},
          "title": {"type": "string"},
          "summary": {"type": "string"},
          "is_translated": {"type": "boolean"},
          "translated_from": {"type": "string"},
          "category": {"type": "string"},
          "image_url": {"type": "string"},
          "created_at": {"type": "string", "format": "date-time"}
        }
      },
      "FeedPage": {
        "type": "object",
        "properties": {
          "items": {"type": "array", "items": {"$ref": "#/components/schemas/FeedCard"}},
          "strict": {"type": "boolean"}
        }
      },
      "ClusterView": {
        "allOf": [
          {"$ref": "#/components/schemas/Resolved"},
          {
            "type": "object",
            "properties": {
              "category": {"type": "string"},
              "source_count": {"type": "integer"},
              "source": {
                "type": "object",
                "properties": {
                  "url": {"type": "string"},
                  "name": {"type": "string"},
                  "image_url": {"type": "string"},
                  "published_at": {"type": "string", "format": "date-time"}
                }
              }
            }
          }
        ]
      },
      "BatchResult": {
        "type": "object",
        "properties": {
          "results": {"type": "array", "items": {"$ref": "#/components/schemas/Resolved"}},
          "failed": {"type": "array", "items": {"type": "string"}}
        }
      }
    },
    "responses": {
      "NotFound": {"description": "Not Found", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
      "Unprocessable": {"description": "Unprocessable Entity", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
      "TooManyRequests": {"description": "Too Many Requests", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}},
      "Unavailable": {"description": "Service Unavailable", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
    }
  }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "Insight BFF API",
	Description:      "Multilingual news clusters with on-demand translation",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

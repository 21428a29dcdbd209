// Package docs contiene la definición swagger de la API. Se regenera con
// `swag init -g cmd/api/main.go` a partir de los godoc de los handlers.
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
        "/pets": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Listar mis mascotas",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/pets.PetResponse"}}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Registrar mascota",
                "parameters": [
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/pets.CreatePetRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "400": {"description": "invalid json / reglas de negocio", "schema": {"type": "string"}},
                    "401": {"description": "unauthorized", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pets"],
                "summary": "Obtener mascota",
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/pets.PetResponse"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/pets/{petID}/logs": {
            "get": {
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Listar logs de una mascota",
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/carelogs.LogResponse"}}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "Registrar log de cuidado",
                "parameters": [
                    {"type": "string", "in": "path", "name": "petID", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/carelogs.CreateLogRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/carelogs.LogResponse"}},
                    "400": {"description": "invalid json / timestamp inválido", "schema": {"type": "string"}},
                    "404": {"description": "pet not found", "schema": {"type": "string"}}
                }
            }
        },
        "/logs/{logID}": {
            "delete": {
                "tags": ["logs"],
                "summary": "Borrar un log",
                "parameters": [
                    {"type": "string", "in": "path", "name": "logID", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "log not found", "schema": {"type": "string"}}
                }
            }
        },
        "/storage/{bucket}/{path}": {
            "get": {
                "produces": ["application/octet-stream"],
                "tags": ["storage"],
                "summary": "Descargar foto",
                "parameters": [
                    {"type": "string", "in": "path", "name": "bucket", "required": true},
                    {"type": "string", "in": "path", "name": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "404": {"description": "not found", "schema": {"type": "string"}}
                }
            },
            "put": {
                "consumes": ["application/octet-stream"],
                "produces": ["application/json"],
                "tags": ["storage"],
                "summary": "Subir foto",
                "parameters": [
                    {"type": "string", "in": "path", "name": "bucket", "required": true},
                    {"type": "string", "in": "path", "name": "path", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "forbidden", "schema": {"type": "string"}},
                    "409": {"description": "already exists", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "pets.CreatePetRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "species": {"type": "string", "enum": ["dog", "cat", "bird", "rabbit", "other"]},
                "breed": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "notes": {"type": "string"},
                "photo_url": {"type": "string"}
            }
        },
        "pets.PetResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "owner_id": {"type": "string"},
                "name": {"type": "string"},
                "species": {"type": "string"},
                "breed": {"type": "string"},
                "date_of_birth": {"type": "string"},
                "notes": {"type": "string"},
                "photo_url": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "carelogs.CreateLogRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["feeding", "walking", "grooming", "medical", "medication", "other"]},
                "timestamp": {"type": "string"},
                "quantity": {"type": "number"},
                "quantity_unit": {"type": "string"},
                "duration_mins": {"type": "integer"},
                "caregiver": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "carelogs.LogResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "pet_id": {"type": "string"},
                "type": {"type": "string"},
                "timestamp": {"type": "string"},
                "quantity": {"type": "number"},
                "quantity_unit": {"type": "string"},
                "duration_mins": {"type": "integer"},
                "caregiver": {"type": "string"},
                "notes": {"type": "string"},
                "seq": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pet Care Log API",
	Description:      "Remote store del registro de cuidados: mascotas, logs y fotos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

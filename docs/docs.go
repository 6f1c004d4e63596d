// Package docs registra el spec OpenAPI servido en /swagger/.
// Regenerar con: swag init -g cmd/api/main.go -o docs
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
        "/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Listar usuários",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/UserResponse"}}}}
            },
            "post": {
                "tags": ["users"],
                "summary": "Cadastrar usuário",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Buscar usuário",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Atualizar usuário",
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "payload", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Excluir usuário (cascata)",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/users/{id}/image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Enviar foto do usuário",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "string", "name": "id", "in": "path", "required": true},
                    {"type": "file", "name": "image", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/UserResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "500": {"description": "Upload failed", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/owners": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["owners"], "summary": "Listar tutores", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["owners"], "summary": "Cadastrar tutor", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorBody"}}}}
        },
        "/owners/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["owners"], "summary": "Buscar tutor", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["owners"], "summary": "Atualizar tutor", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["owners"], "summary": "Excluir tutor", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageBody"}}}}
        },
        "/animals": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["animals"], "summary": "Listar animais", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["animals"], "summary": "Cadastrar animal", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/animals/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["animals"], "summary": "Buscar animal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["animals"], "summary": "Atualizar animal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["animals"], "summary": "Excluir animal", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageBody"}}}}
        },
        "/records": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Listar prontuários", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Registrar atendimento", "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "403": {"description": "Forbidden"}}}
        },
        "/records/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Buscar prontuário", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Atualizar prontuário", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["records"], "summary": "Excluir prontuário", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/MessageBody"}}}}
        },
        "/records/{id}/pdf": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["records"],
                "summary": "Baixar prontuário em PDF",
                "produces": ["application/pdf"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "file"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorBody"}}}
            }
        },
        "/health": {
            "get": {"tags": ["ops"], "summary": "Liveness", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"tags": ["ops"], "summary": "Readiness (banco de dados)", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "definitions": {
        "ErrorBody": {"type": "object", "properties": {"error": {"type": "string"}}},
        "MessageBody": {"type": "object", "properties": {"message": {"type": "string"}}},
        "LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expiresAt": {"type": "string"}, "user": {"$ref": "#/definitions/UserResponse"}}},
        "RegisterRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "UpdateUserRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}}},
        "UserResponse": {"type": "object", "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}, "imageUrl": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo es la metadata que swag inyecta en el template.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vetly API",
	Description:      "Prontuário veterinário: usuários, tutores, animais e atendimentos.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

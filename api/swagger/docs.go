// Package swagger serves the OpenAPI document of the portal routes annotated in internal/handler.
// Keep it in step with those annotations; `swag init -g cmd/portal/main.go -o api/swagger` rebuilds it.
package swagger

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
        "/admin/assets": {
            "get": {
                "summary": "Every asset",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset code, item name or holder contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category filter",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/assets/{id}/approve": {
            "patch": {
                "summary": "Confirm an asset as received",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/assets/{id}/reject": {
            "patch": {
                "summary": "Send an asset for replacement",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/audit-logs": {
            "get": {
                "summary": "Get audit logs",
                "description": "Every create, update, delete and workflow call that went through the portal",
                "tags": [
                    "audit"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Number of items per page (default 10)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/meetings": {
            "get": {
                "summary": "Every booking with room usage",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Room, agenda or organizer contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/meetings/{id}/force-end": {
            "patch": {
                "summary": "Force-end a meeting",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/requests": {
            "get": {
                "summary": "Every item request",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Item name, reason or requester contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category filter",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/requests/{id}/approve": {
            "patch": {
                "summary": "Approve an item request",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "GA note",
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/requests/{id}/note": {
            "patch": {
                "summary": "Save the GA note of an item request",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "GA note",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/requests/{id}/reject": {
            "patch": {
                "summary": "Reject an item request",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "GA note",
                        "name": "payload",
                        "in": "body",
                        "required": false,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/todos": {
            "get": {
                "summary": "Every employee's to-dos",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Title, description or owner contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/todos/{id}/evaluate": {
            "post": {
                "summary": "Approve or send back a to-do",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Evaluation",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/todos/{id}/note": {
            "patch": {
                "summary": "Save the admin note of a to-do",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Note",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/users": {
            "get": {
                "summary": "Portal users",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Name, email or department contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Role filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Create a user",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "User",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/users/{id}": {
            "put": {
                "summary": "Edit a user",
                "description": "An empty password keeps the current one",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "User ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "User",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Delete a user",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "User ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/visitors": {
            "get": {
                "summary": "Visitor log",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Page number (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Rows per page (default 10)",
                        "name": "per_page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Name, origin or host contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "checked_in or checked_out",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Register a visitor",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Name",
                        "name": "name",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Host",
                        "name": "meet_with",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Purpose",
                        "name": "purpose",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Company or origin",
                        "name": "origin",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "ID card photo",
                        "name": "ktp_image",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "description": "Face photo",
                        "name": "face_image",
                        "in": "formData",
                        "type": "file"
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/visitors/export": {
            "get": {
                "summary": "Export the visitor log",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "502": {
                        "description": "Bad Gateway",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/visitors/{id}": {
            "patch": {
                "summary": "Edit a visitor",
                "description": "Only the submitted fields and images change",
                "tags": [
                    "admin"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Visitor ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Name",
                        "name": "name",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "Host",
                        "name": "meet_with",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "Purpose",
                        "name": "purpose",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "Company or origin",
                        "name": "origin",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "ID card photo",
                        "name": "ktp_image",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "description": "Face photo",
                        "name": "face_image",
                        "in": "formData",
                        "type": "file"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Delete a visitor",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Visitor ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/admin/visitors/{id}/check-out": {
            "post": {
                "summary": "Check a visitor out",
                "tags": [
                    "admin"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Visitor ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/assets": {
            "get": {
                "summary": "My assets",
                "tags": [
                    "assets"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset code or item name contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category filter",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/assets/{id}/status": {
            "patch": {
                "summary": "Report an asset as received or broken",
                "tags": [
                    "assets"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "received, needs_repair or needs_replacement",
                        "name": "status",
                        "in": "formData",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Notes",
                        "name": "notes",
                        "in": "formData",
                        "type": "string"
                    },
                    {
                        "description": "Receipt photo",
                        "name": "receipt_proof",
                        "in": "formData",
                        "type": "file"
                    },
                    {
                        "description": "Damage photo",
                        "name": "repair_proof",
                        "in": "formData",
                        "type": "file"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "summary": "Sign in",
                "description": "Signs in against the GA backend and starts a portal session cookie",
                "tags": [
                    "auth"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Login Credentials",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "429": {
                        "description": "Too Many Requests",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "summary": "Sign out",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "summary": "Current session",
                "description": "Returns the signed-in user, or state anonymous",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/dashboard": {
            "get": {
                "summary": "Role dashboard",
                "description": "Stat cards, chart and quick actions for the caller's role. A slow backend yields timed_out instead of an error.",
                "tags": [
                    "dashboard"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/login": {
            "get": {
                "summary": "Login page",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "302": {
                        "description": "Found"
                    }
                }
            }
        },
        "/meetings": {
            "get": {
                "summary": "My room bookings",
                "tags": [
                    "meetings"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Room or agenda contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "scheduled, ongoing or ended",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Book a room",
                "tags": [
                    "meetings"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Booking",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/meetings/{id}": {
            "put": {
                "summary": "Edit a booking",
                "tags": [
                    "meetings"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Booking",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Cancel a booking",
                "tags": [
                    "meetings"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/meetings/{id}/end": {
            "patch": {
                "summary": "End a meeting",
                "tags": [
                    "meetings"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/meetings/{id}/start": {
            "patch": {
                "summary": "Start a meeting",
                "tags": [
                    "meetings"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Meeting ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/navigation": {
            "get": {
                "summary": "Menu of the signed-in user",
                "tags": [
                    "auth"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/assets": {
            "get": {
                "summary": "Assets waiting on procurement",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset code or item name contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/assets/{id}/repairing": {
            "post": {
                "summary": "Mark an asset as in repair",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/assets/{id}/replacing": {
            "post": {
                "summary": "Mark an asset as being replaced",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Asset ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/records": {
            "get": {
                "summary": "Purchase records",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Item, reason or notes contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Record a purchase",
                "tags": [
                    "procurement"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Purchase",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/requests": {
            "get": {
                "summary": "Procurement pipeline",
                "description": "Approved requests with the status of their asset",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Item name, reason or requester contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Display status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category filter",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/requests/{id}/complete": {
            "post": {
                "summary": "Mark a request completed",
                "description": "Local to the caller's pipeline; the next refresh from the backend wins",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/requests/{id}/start": {
            "post": {
                "summary": "Start procurement of a request",
                "description": "Records the purchase from the request's own data. The reply already shows the new status.",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/stats": {
            "get": {
                "summary": "Monthly procurement counts and spend",
                "tags": [
                    "procurement"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/procurement/ws": {
            "get": {
                "summary": "Live pipeline",
                "tags": [
                    "procurement"
                ],
                "responses": {
                    "101": {
                        "description": "Switching Protocols"
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/requests": {
            "get": {
                "summary": "My item requests",
                "tags": [
                    "requests"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Item name or reason contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Category filter",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Request an item",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/requests/{id}": {
            "put": {
                "summary": "Edit an item request",
                "tags": [
                    "requests"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Request",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Withdraw an item request",
                "tags": [
                    "requests"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Request ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/theme": {
            "get": {
                "summary": "Theme",
                "tags": [
                    "theme"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Toggle theme",
                "tags": [
                    "theme"
                ],
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/todos": {
            "get": {
                "summary": "My to-dos",
                "tags": [
                    "todos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Title or description contains",
                        "name": "search",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Status filter, all for none",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "post": {
                "summary": "Create a to-do",
                "tags": [
                    "todos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/todos/{id}": {
            "put": {
                "summary": "Edit a to-do",
                "tags": [
                    "todos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "To-do",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            },
            "delete": {
                "summary": "Delete a to-do",
                "tags": [
                    "todos"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/todos/{id}/evidence": {
            "post": {
                "summary": "Upload evidence and submit for checking",
                "tags": [
                    "todos"
                ],
                "consumes": [
                    "multipart/form-data"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "Evidence file",
                        "name": "evidence",
                        "in": "formData",
                        "type": "file",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        },
        "/todos/{id}/status": {
            "patch": {
                "summary": "Change to-do status",
                "tags": [
                    "todos"
                ],
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "To-do ID",
                        "name": "id",
                        "in": "path",
                        "type": "string",
                        "required": true
                    },
                    {
                        "description": "New status",
                        "name": "payload",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {
                            "$ref": "#/definitions/response.Response"
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {
                    "type": "string"
                },
                "redirect": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                },
                "status_code": {
                    "type": "integer"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "GA Portal API",
	Description:      "Browser gateway of the General Affairs portal: sessions, role guard and page views over the GA backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs registers the OpenAPI description served under /swagger.
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
        "/molds": {
            "get": {
                "tags": ["molds"],
                "summary": "List molds",
                "parameters": [
                    {"type": "string", "name": "q", "in": "query", "description": "Substring of mold code or name"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["molds"],
                "summary": "Create a mold",
                "parameters": [{"name": "mold", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Mold"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Mold"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/molds/{id}": {
            "get": {
                "tags": ["molds"],
                "summary": "Get a mold",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Mold"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "put": {
                "tags": ["molds"],
                "summary": "Update a mold",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "update", "in": "body", "required": true, "schema": {"$ref": "#/definitions/MoldUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Mold"}},
                    "409": {"description": "Mold is in use", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            },
            "delete": {
                "tags": ["molds"],
                "summary": "Delete a mold",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Mold is in use or referenced", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/materials": {
            "get": {
                "tags": ["materials"],
                "summary": "List materials",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["materials"],
                "summary": "Create a material and its inventory row",
                "parameters": [{"name": "material", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Material"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Material"}},
                    "409": {"description": "Duplicate code", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/materials/{id}": {
            "get": {
                "tags": ["materials"],
                "summary": "Get a material",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Material"}}}
            },
            "put": {
                "tags": ["materials"],
                "summary": "Update a material",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Material"}}}
            },
            "delete": {
                "tags": ["materials"],
                "summary": "Delete a material",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Material is referenced", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/products": {
            "get": {
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["products"],
                "summary": "Create a product",
                "parameters": [{"name": "product", "in": "body", "required": true, "schema": {"$ref": "#/definitions/Product"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/Product"}}}
            }
        },
        "/products/{id}": {
            "get": {
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Product"}}}
            },
            "put": {
                "tags": ["products"],
                "summary": "Update a product",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Product"}}}
            },
            "delete": {
                "tags": ["products"],
                "summary": "Delete a product and its BOM",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/products/{id}/bom": {
            "get": {
                "tags": ["bom"],
                "summary": "List the direct BOM edges of a product",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["bom"],
                "summary": "Create or overwrite a BOM edge",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "item", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BOMItemUpsert"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/BOMItem"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BOMItem"}}
                }
            }
        },
        "/bom_items/{id}": {
            "delete": {
                "tags": ["bom"],
                "summary": "Delete a BOM edge",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/bom/import_tree": {
            "post": {
                "tags": ["bom"],
                "summary": "Import a depth-annotated BOM tree",
                "description": "Accepts JSON {\"tsv\": \"...\"}, a raw text body, or a multipart file (.tsv, .txt, .xlsx).",
                "consumes": ["application/json", "text/plain", "multipart/form-data"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/TreeImportResult"}},
                    "400": {"description": "Bad header or empty table", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "413": {"description": "Payload too large", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/inventory": {
            "get": {
                "tags": ["inventory"],
                "summary": "List inventory",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/in": {
            "post": {
                "tags": ["inventory"],
                "summary": "Receive stock",
                "parameters": [{"name": "receipt", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StockReceipt"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Inventory"}}}
            }
        },
        "/inventory/reconcile": {
            "get": {
                "tags": ["inventory"],
                "summary": "Compare on_hand with the sum of stock moves",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/alerts": {
            "get": {
                "tags": ["inventory"],
                "summary": "List materials below safety stock",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/inventory/{material_id}": {
            "get": {
                "tags": ["inventory"],
                "summary": "Get inventory of a material",
                "parameters": [{"type": "string", "format": "uuid", "name": "material_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Inventory"}}}
            }
        },
        "/inventory/{material_id}/moves": {
            "get": {
                "tags": ["inventory"],
                "summary": "List stock moves of a material",
                "parameters": [{"type": "string", "format": "uuid", "name": "material_id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks": {
            "get": {
                "tags": ["tasks"],
                "summary": "List tasks",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["tasks"],
                "summary": "Create a task, occupy its mold and explode requirements",
                "parameters": [{"name": "task", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TaskCreate"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/Task"}},
                    "409": {"description": "Mold missing or not idle, duplicate task_no", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}": {
            "get": {
                "tags": ["tasks"],
                "summary": "Get a task",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/Task"}}}
            },
            "delete": {
                "tags": ["tasks"],
                "summary": "Delete a task and release its mold",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/tasks/{id}/materials": {
            "get": {
                "tags": ["tasks"],
                "summary": "List task material requirements with shortage",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tasks/{id}/issue": {
            "post": {
                "tags": ["tasks"],
                "summary": "Issue material to a task",
                "parameters": [
                    {"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true},
                    {"name": "issue", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StockIssue"}}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "422": {"description": "Insufficient stock", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/tasks/{id}/reports": {
            "get": {
                "tags": ["tasks"],
                "summary": "List work reports of a task",
                "parameters": [{"type": "string", "format": "uuid", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/report": {
            "post": {
                "tags": ["tasks"],
                "summary": "Report produced quantity",
                "parameters": [{"name": "report", "in": "body", "required": true, "schema": {"$ref": "#/definitions/WorkReport"}}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Task already completed", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {
                    "type": "object",
                    "properties": {
                        "code": {"type": "string"},
                        "message": {"type": "string"},
                        "details": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "Mold": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "mold_code": {"type": "string"},
                "mold_name": {"type": "string"},
                "total_life": {"type": "integer"},
                "used_count": {"type": "integer"},
                "status": {"type": "string", "enum": ["Idle", "InUse", "Maintenance"]}
            }
        },
        "MoldUpdate": {
            "type": "object",
            "properties": {
                "mold_name": {"type": "string"},
                "total_life": {"type": "integer"},
                "status": {"type": "string", "enum": ["Idle", "Maintenance"]}
            }
        },
        "Material": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "material_code": {"type": "string"},
                "material_name": {"type": "string"},
                "drawing_no": {"type": "string"},
                "material_type": {"type": "string"},
                "remark": {"type": "string"},
                "unit": {"type": "string"},
                "safety_stock": {"type": "integer"}
            }
        },
        "Product": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "product_code": {"type": "string"},
                "product_name": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "BOMItem": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "product_id": {"type": "string", "format": "uuid"},
                "material_id": {"type": "string", "format": "uuid"},
                "material_code": {"type": "string"},
                "qty_per_unit": {"type": "integer"}
            }
        },
        "BOMItemUpsert": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string", "format": "uuid"},
                "qty_per_unit": {"type": "integer"}
            }
        },
        "TreeImportResult": {
            "type": "object",
            "properties": {
                "import_id": {"type": "string", "format": "uuid"},
                "rows": {"type": "integer"},
                "bom_created": {"type": "integer"},
                "bom_updated": {"type": "integer"},
                "skipped": {"type": "integer"},
                "archive_key": {"type": "string"}
            }
        },
        "Inventory": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string", "format": "uuid"},
                "material_code": {"type": "string"},
                "on_hand": {"type": "integer"},
                "reserved": {"type": "integer"},
                "available": {"type": "integer"},
                "safety_stock": {"type": "integer"}
            }
        },
        "StockReceipt": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string", "format": "uuid"},
                "qty": {"type": "integer"},
                "note": {"type": "string"}
            }
        },
        "StockIssue": {
            "type": "object",
            "properties": {
                "material_id": {"type": "string", "format": "uuid"},
                "qty": {"type": "integer"}
            }
        },
        "Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "format": "uuid"},
                "task_no": {"type": "string"},
                "mold_id": {"type": "string", "format": "uuid"},
                "product_id": {"type": "string", "format": "uuid"},
                "operator_name": {"type": "string"},
                "target_qty": {"type": "integer"},
                "done_qty": {"type": "integer"},
                "status": {"type": "string", "enum": ["InProgress", "Completed"]}
            }
        },
        "TaskCreate": {
            "type": "object",
            "properties": {
                "task_no": {"type": "string"},
                "mold_id": {"type": "string", "format": "uuid"},
                "product_id": {"type": "string", "format": "uuid"},
                "operator_name": {"type": "string"},
                "target_qty": {"type": "integer"}
            }
        },
        "WorkReport": {
            "type": "object",
            "properties": {
                "task_no": {"type": "string"},
                "qty": {"type": "integer"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/v1",
	Schemes:          []string{},
	Title:            "moldmes API",
	Description:      "Molding shop execution core: BOM import, material requirements, inventory ledger and task lifecycle.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

package config

// Schema is the JSON schema for validating settings files
const Schema = `{
    "$schema": "http://json-schema.org/draft-07/schema#",
    "type": "object",
    "properties": {
        "ssh_path": {
            "type": "string",
            "minLength": 1,
            "description": "Path to the remote-shell executable"
        },
        "rsync_path": {
            "type": "string",
            "minLength": 1,
            "description": "Path to the file-synchronization executable"
        },
        "ssh_options": {
            "type": "array",
            "items": {
                "type": "string"
            }
        },
        "rsync_options": {
            "type": "array",
            "items": {
                "type": "string"
            }
        },
        "normalize_permissions": {
            "type": "boolean",
            "description": "Force 0644/0755 modes on the destination tree after transfer"
        },
        "servers": {
            "type": "array",
            "items": {
                "type": "object",
                "properties": {
                    "name": {
                        "type": "string",
                        "minLength": 1
                    },
                    "host": {
                        "type": "string",
                        "minLength": 1
                    },
                    "port": {
                        "type": "integer",
                        "minimum": 1,
                        "maximum": 65535
                    },
                    "user": {
                        "type": "string"
                    },
                    "root_directory": {
                        "type": "string",
                        "minLength": 1
                    },
                    "private_key": {
                        "type": "string"
                    },
                    "ssh_options": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    },
                    "rsync_options": {
                        "type": "array",
                        "items": {
                            "type": "string"
                        }
                    }
                },
                "required": ["name", "host", "root_directory"],
                "additionalProperties": false
            }
        }
    },
    "additionalProperties": false
}`

package schema

import "github.com/tfcanvas/canvas/internal/registry"

func str(name, def string, required bool, desc string) PropertyDefinition {
	return PropertyDefinition{Name: name, Kind: KindString, Default: def, Required: required, Description: desc}
}

func num(name, def string, desc string) PropertyDefinition {
	return PropertyDefinition{Name: name, Kind: KindNumber, Default: def, Description: desc}
}

func boolean(name, def string, desc string) PropertyDefinition {
	return PropertyDefinition{Name: name, Kind: KindBoolean, Default: def, Description: desc}
}

func enum(name, def string, required bool, desc string, options ...string) PropertyDefinition {
	return PropertyDefinition{Name: name, Kind: KindEnum, Default: def, Required: required, Description: desc, Options: options}
}

func document(name string, required bool, desc string) PropertyDefinition {
	return PropertyDefinition{Name: name, Kind: KindJSON, Required: required, Description: desc}
}

// fallbackTable is used whenever no provider schema document can be loaded.
// Unlike documents it carries defaults and enum options.
func fallbackTable() map[registry.ResourceType][]PropertyDefinition {
	t := map[registry.ResourceType][]PropertyDefinition{
		registry.LambdaFunction: {
			str("function_name", "", true, "Unique name for the Lambda function."),
			str("role", "", true, "ARN of the function's execution role."),
			str("handler", "index.handler", false, "Function entrypoint in your code."),
			enum("runtime", "python3.12", false, "Identifier of the function's runtime.",
				"nodejs20.x", "nodejs18.x", "python3.12", "python3.11", "java21", "go1.x", "provided.al2023", "dotnet8", "ruby3.3"),
			num("memory_size", "128", "Amount of memory in MB."),
			num("timeout", "3", "Amount of time the function has to run in seconds."),
			str("filename", "", false, "Path to the function's deployment package."),
			str("s3_bucket", "", false, "S3 bucket location containing the deployment package."),
			str("s3_key", "", false, "S3 key of an object containing the deployment package."),
			boolean("publish", "false", "Whether to publish creation/change as new version."),
		},
		registry.S3Bucket: {
			str("bucket", "", false, "Name of the bucket."),
			boolean("force_destroy", "false", "Delete all objects when the bucket is destroyed."),
			boolean("object_lock_enabled", "false", "Whether the bucket has Object Lock enabled."),
		},
		registry.S3BucketPolicy: {
			str("bucket", "", true, "Name of the bucket to apply the policy to."),
			document("policy", true, "Text of the policy, a valid JSON document."),
		},
		registry.Instance: {
			str("ami", "", true, "AMI to use for the instance."),
			enum("instance_type", "t3.micro", true, "Instance type to use.",
				"t3.nano", "t3.micro", "t3.small", "t3.medium", "m5.large", "c5.large"),
			str("subnet_id", "", false, "VPC subnet to launch in."),
			str("key_name", "", false, "Key name of the key pair."),
			boolean("associate_public_ip_address", "false", "Associate a public IP address."),
			boolean("monitoring", "false", "Enable detailed monitoring."),
		},
		registry.VPC: {
			str("cidr_block", "10.0.0.0/16", true, "IPv4 CIDR block for the VPC."),
			boolean("enable_dns_support", "true", "Enable DNS support in the VPC."),
			boolean("enable_dns_hostnames", "false", "Enable DNS hostnames in the VPC."),
			enum("instance_tenancy", "default", false, "Tenancy option for instances.", "default", "dedicated"),
		},
		registry.Subnet: {
			str("vpc_id", "", true, "VPC ID."),
			str("cidr_block", "10.0.1.0/24", true, "IPv4 CIDR block for the subnet."),
			str("availability_zone", "", false, "AZ for the subnet."),
			boolean("map_public_ip_on_launch", "false", "Assign a public IP to launched instances."),
		},
		registry.SecurityGroup: {
			str("name", "", false, "Name of the security group."),
			str("description", "Managed by Terraform", false, "Security group description."),
			str("vpc_id", "", false, "VPC ID."),
		},
		registry.DBInstance: {
			str("identifier", "", false, "Name of the RDS instance."),
			enum("engine", "postgres", true, "Database engine to use.", "postgres", "mysql", "mariadb", "oracle-se2", "sqlserver-ex"),
			str("engine_version", "", false, "Engine version to use."),
			enum("instance_class", "db.t3.micro", true, "Instance type of the RDS instance.",
				"db.t3.micro", "db.t3.small", "db.t3.medium", "db.m5.large"),
			num("allocated_storage", "20", "Allocated storage in gibibytes."),
			str("username", "", false, "Username for the master DB user."),
			boolean("multi_az", "false", "Whether the instance is multi-AZ."),
			boolean("skip_final_snapshot", "true", "Skip the final snapshot on deletion."),
		},
		registry.DynamoDBTable: {
			str("name", "", true, "Name of the table."),
			str("hash_key", "", true, "Attribute to use as the hash (partition) key."),
			str("range_key", "", false, "Attribute to use as the range (sort) key."),
			enum("billing_mode", "PAY_PER_REQUEST", false, "Controls how you are charged.", "PROVISIONED", "PAY_PER_REQUEST"),
		},
		registry.IAMRole: {
			str("name", "", false, "Friendly name of the role."),
			document("assume_role_policy", true, "Policy that grants an entity permission to assume the role."),
			str("description", "", false, "Description of the role."),
			num("max_session_duration", "3600", "Maximum session duration in seconds."),
		},
		registry.IAMPolicy: {
			str("name", "", false, "Name of the policy."),
			document("policy", true, "Policy document, a JSON formatted string."),
			str("path", "/", false, "Path in which to create the policy."),
		},
		registry.IAMRolePolicyAttachment: {
			str("role", "", true, "Name of the IAM role."),
			str("policy_arn", "", true, "ARN of the policy to apply."),
		},
		registry.SQSQueue: {
			str("name", "", false, "Name of the queue."),
			boolean("fifo_queue", "false", "Designates a FIFO queue."),
			num("visibility_timeout_seconds", "30", "Visibility timeout for the queue."),
			num("message_retention_seconds", "345600", "Seconds SQS retains a message."),
			document("redrive_policy", false, "JSON policy to set up the dead letter queue."),
		},
		registry.SNSTopic: {
			str("name", "", false, "Name of the topic."),
			boolean("fifo_topic", "false", "Whether the topic is FIFO."),
		},
		registry.CloudWatchLogGroup: {
			str("name", "", false, "Name of the log group."),
			num("retention_in_days", "0", "Days to retain log events."),
		},
		registry.LambdaPermission: {
			str("action", "lambda:InvokeFunction", true, "Lambda action to allow."),
			str("function_name", "", true, "Name of the Lambda function."),
			str("principal", "", true, "Principal who is getting this permission."),
			str("source_arn", "", false, "ARN of the invoking resource."),
		},
		registry.APIGatewayRestAPI: {
			str("name", "", true, "Name of the REST API."),
			str("description", "", false, "Description of the REST API."),
			document("body", false, "OpenAPI specification that defines the set of routes."),
		},
		registry.StepFunction: {
			str("name", "", false, "Name of the state machine."),
			str("role_arn", "", true, "IAM role the state machine assumes."),
			document("definition", true, "Amazon States Language definition."),
		},
		registry.EventBridgeRule: {
			str("name", "", false, "Name of the rule."),
			str("schedule_expression", "", false, "Scheduling expression."),
			document("event_pattern", false, "Event pattern described as a JSON object."),
		},
	}
	for _, defs := range t {
		sortDefinitions(defs)
	}
	return t
}

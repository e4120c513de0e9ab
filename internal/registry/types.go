package registry

// ResourceType is one of the closed set of resource kinds a block can represent.
// The zero value is Unknown.
type ResourceType int

// Supported resource types. Order is the palette order.
const (
	Unknown ResourceType = iota

	// compute
	Instance
	LambdaFunction
	LambdaPermission
	ECSCluster
	ECSService
	EKSCluster

	// database
	DBInstance
	DynamoDBTable
	ElastiCacheCluster

	// storage
	S3Bucket
	S3BucketPolicy
	EFSFileSystem

	// networking
	VPC
	Subnet
	InternetGateway
	NATGateway
	RouteTable
	LoadBalancer
	APIGatewayRestAPI
	CloudFrontDistribution
	Route53Record

	// security
	SecurityGroup
	IAMRole
	IAMPolicy
	IAMRolePolicyAttachment
	KMSKey

	// integration
	SQSQueue
	SNSTopic
	EventBridgeRule
	StepFunction

	// monitoring
	CloudWatchLogGroup
	CloudWatchMetricAlarm

	numResourceTypes
)

// Category is the coarse palette grouping of a resource type.
type Category string

const (
	CategoryCompute     Category = "compute"
	CategoryDatabase    Category = "database"
	CategoryStorage     Category = "storage"
	CategoryNetworking  Category = "networking"
	CategorySecurity    Category = "security"
	CategoryIntegration Category = "integration"
	CategoryMonitoring  Category = "monitoring"
	CategoryOther       Category = "other"
)

type typeInfo struct {
	display   string
	canonical string
	category  Category
}

// UnknownName is returned by CanonicalName for Unknown.
const UnknownName = "unknown"

var typeTable = [numResourceTypes]typeInfo{
	Unknown: {display: "Unknown", canonical: UnknownName, category: CategoryOther},

	Instance:         {display: "EC2 Instance", canonical: "aws_instance", category: CategoryCompute},
	LambdaFunction:   {display: "Lambda Function", canonical: "aws_lambda_function", category: CategoryCompute},
	LambdaPermission: {display: "Lambda Permission", canonical: "aws_lambda_permission", category: CategoryCompute},
	ECSCluster:       {display: "ECS Cluster", canonical: "aws_ecs_cluster", category: CategoryCompute},
	ECSService:       {display: "ECS Service", canonical: "aws_ecs_service", category: CategoryCompute},
	EKSCluster:       {display: "EKS Cluster", canonical: "aws_eks_cluster", category: CategoryCompute},

	DBInstance:         {display: "RDS Instance", canonical: "aws_db_instance", category: CategoryDatabase},
	DynamoDBTable:      {display: "DynamoDB Table", canonical: "aws_dynamodb_table", category: CategoryDatabase},
	ElastiCacheCluster: {display: "ElastiCache Cluster", canonical: "aws_elasticache_cluster", category: CategoryDatabase},

	S3Bucket:       {display: "S3 Bucket", canonical: "aws_s3_bucket", category: CategoryStorage},
	S3BucketPolicy: {display: "S3 Bucket Policy", canonical: "aws_s3_bucket_policy", category: CategoryStorage},
	EFSFileSystem:  {display: "EFS File System", canonical: "aws_efs_file_system", category: CategoryStorage},

	VPC:                    {display: "VPC", canonical: "aws_vpc", category: CategoryNetworking},
	Subnet:                 {display: "Subnet", canonical: "aws_subnet", category: CategoryNetworking},
	InternetGateway:        {display: "Internet Gateway", canonical: "aws_internet_gateway", category: CategoryNetworking},
	NATGateway:             {display: "NAT Gateway", canonical: "aws_nat_gateway", category: CategoryNetworking},
	RouteTable:             {display: "Route Table", canonical: "aws_route_table", category: CategoryNetworking},
	LoadBalancer:           {display: "Load Balancer", canonical: "aws_lb", category: CategoryNetworking},
	APIGatewayRestAPI:      {display: "API Gateway REST API", canonical: "aws_api_gateway_rest_api", category: CategoryNetworking},
	CloudFrontDistribution: {display: "CloudFront Distribution", canonical: "aws_cloudfront_distribution", category: CategoryNetworking},
	Route53Record:          {display: "Route 53 Record", canonical: "aws_route53_record", category: CategoryNetworking},

	SecurityGroup:           {display: "Security Group", canonical: "aws_security_group", category: CategorySecurity},
	IAMRole:                 {display: "IAM Role", canonical: "aws_iam_role", category: CategorySecurity},
	IAMPolicy:               {display: "IAM Policy", canonical: "aws_iam_policy", category: CategorySecurity},
	IAMRolePolicyAttachment: {display: "IAM Role Policy Attachment", canonical: "aws_iam_role_policy_attachment", category: CategorySecurity},
	KMSKey:                  {display: "KMS Key", canonical: "aws_kms_key", category: CategorySecurity},

	SQSQueue:        {display: "SQS Queue", canonical: "aws_sqs_queue", category: CategoryIntegration},
	SNSTopic:        {display: "SNS Topic", canonical: "aws_sns_topic", category: CategoryIntegration},
	EventBridgeRule: {display: "EventBridge Rule", canonical: "aws_cloudwatch_event_rule", category: CategoryIntegration},
	StepFunction:    {display: "Step Functions State Machine", canonical: "aws_sfn_state_machine", category: CategoryIntegration},

	CloudWatchLogGroup:    {display: "CloudWatch Log Group", canonical: "aws_cloudwatch_log_group", category: CategoryMonitoring},
	CloudWatchMetricAlarm: {display: "CloudWatch Metric Alarm", canonical: "aws_cloudwatch_metric_alarm", category: CategoryMonitoring},
}

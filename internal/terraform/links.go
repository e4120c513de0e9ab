package terraform

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/tfcanvas/canvas/internal/diagram"
	"github.com/tfcanvas/canvas/internal/registry"
)

// link says that an edge from a block of type source into a block of type
// target fills target's Attr with a reference to the source's SourceAttr.
type link struct {
	Attr       string
	SourceAttr string
}

type linkKey struct {
	target, source registry.ResourceType
}

var links = map[linkKey]link{
	{registry.Subnet, registry.VPC}:                        {"vpc_id", "id"},
	{registry.SecurityGroup, registry.VPC}:                 {"vpc_id", "id"},
	{registry.InternetGateway, registry.VPC}:               {"vpc_id", "id"},
	{registry.RouteTable, registry.VPC}:                    {"vpc_id", "id"},
	{registry.NATGateway, registry.Subnet}:                 {"subnet_id", "id"},
	{registry.Instance, registry.Subnet}:                   {"subnet_id", "id"},
	{registry.LambdaFunction, registry.IAMRole}:            {"role", "arn"},
	{registry.LambdaPermission, registry.LambdaFunction}:   {"function_name", "function_name"},
	{registry.ECSService, registry.ECSCluster}:             {"cluster", "id"},
	{registry.EKSCluster, registry.IAMRole}:                {"role_arn", "arn"},
	{registry.S3BucketPolicy, registry.S3Bucket}:           {"bucket", "id"},
	{registry.IAMRolePolicyAttachment, registry.IAMRole}:   {"role", "name"},
	{registry.IAMRolePolicyAttachment, registry.IAMPolicy}: {"policy_arn", "arn"},
	{registry.CloudWatchMetricAlarm, registry.SNSTopic}:    {"alarm_actions", "arn"},
	{registry.StepFunction, registry.IAMRole}:              {"role_arn", "arn"},
	{registry.ElastiCacheCluster, registry.SecurityGroup}:  {"security_group_ids", "id"},
	{registry.DBInstance, registry.SecurityGroup}:          {"vpc_security_group_ids", "id"},
	{registry.Instance, registry.SecurityGroup}:            {"vpc_security_group_ids", "id"},
	{registry.EFSFileSystem, registry.KMSKey}:              {"kms_key_id", "arn"},
	{registry.SQSQueue, registry.KMSKey}:                   {"kms_master_key_id", "arn"},
}

// listAttrs are filled with a one-element list rather than a bare reference.
var listAttrs = map[string]bool{
	"alarm_actions":          true,
	"security_group_ids":     true,
	"vpc_security_group_ids": true,
}

// impliedRefs returns the edge-implied references of n per attribute, for
// incoming edges matching the link table whose attribute n leaves empty.
// Single-valued attributes keep the first matching edge; list attributes
// collect every one. The second result holds the edge sources consumed.
func impliedRefs(d *diagram.Diagram, n *diagram.Node, addrs map[string]Address) (map[string][]hcl.Traversal, map[string]bool) {
	refs := make(map[string][]hcl.Traversal)
	used := make(map[string]bool)
	target := registry.ByCanonicalName(n.Type)
	for _, e := range d.EdgesWithTarget(n.ID) {
		src, ok := addrs[e.Source]
		if !ok {
			continue
		}
		l, ok := links[linkKey{target, registry.ByCanonicalName(src.Type)}]
		if !ok || n.Properties[l.Attr] != "" {
			continue
		}
		if len(refs[l.Attr]) > 0 && !listAttrs[l.Attr] {
			continue
		}
		refs[l.Attr] = append(refs[l.Attr], refTraversal(src.Type, src.Name, l.SourceAttr))
		used[e.Source] = true
	}
	return refs, used
}

// setImplied writes the references found by impliedRefs.
func setImplied(body *hclwrite.Body, refs map[string][]hcl.Traversal) {
	for _, attr := range sortedKeys(refs) {
		if !listAttrs[attr] {
			body.SetAttributeTraversal(attr, refs[attr][0])
			continue
		}
		elems := make([]hclwrite.Tokens, 0, len(refs[attr]))
		for _, t := range refs[attr] {
			elems = append(elems, hclwrite.TokensForTraversal(t))
		}
		body.SetAttributeRaw(attr, hclwrite.TokensForTuple(elems))
	}
}

package deriver

// Dependencies carries values computed elsewhere that some rules read.
type Dependencies struct {
	// HiveMetastoreURIs is the recommended hive.metastore.uris value.
	HiveMetastoreURIs string `yaml:"hive_metastore_uris,omitempty" json:"hiveMetastoreUris,omitempty"`
	// ZooKeeperClientPort is the clientPort from zoo.cfg.
	ZooKeeperClientPort string `yaml:"zookeeper_client_port,omitempty" json:"zookeeperClientPort,omitempty"`

	AlwaysEnableManagedMySQLForHive bool `yaml:"always_enable_managed_mysql_for_hive,omitempty" json:"alwaysEnableManagedMySQLForHive,omitempty"`
	ManagedMySQLForHiveEnabled      bool `yaml:"managed_mysql_for_hive_enabled,omitempty" json:"managedMySQLForHiveEnabled,omitempty"`
	// OnServiceConfigsPage is set when configs are edited on an installed service.
	OnServiceConfigsPage bool `yaml:"on_service_configs_page,omitempty" json:"onServiceConfigsPage,omitempty"`
}

// CollectDependencies fills empty fields of deps from the recommended values
// of props.
func CollectDependencies(deps Dependencies, props []*ConfigProperty) Dependencies {
	for _, p := range props {
		switch p.Name {
		case "hive.metastore.uris":
			if deps.HiveMetastoreURIs == "" {
				deps.HiveMetastoreURIs = p.Template()
			}
		case "clientPort":
			if deps.ZooKeeperClientPort == "" {
				deps.ZooKeeperClientPort = p.Value
				if deps.ZooKeeperClientPort == "" {
					deps.ZooKeeperClientPort = p.RecommendedValue
				}
			}
		}
	}
	return deps
}
